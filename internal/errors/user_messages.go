package errors

// User-friendly error messages
const (
	MsgNetwork            = "Could not reach the listings service. Check your connection and try again."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgNotLoggedIn        = "You are not logged in. Run campo login first."
	MsgForbidden          = "Your account is not allowed to do that."
	MsgPropertyNotFound   = "Property not found. It may have been sold or removed."
	MsgNotFound           = "The requested resource was not found."
	MsgValidationFailed   = "Some fields are missing or invalid. Please review them and try again."
	MsgRateLimited        = "Too many requests! Please wait a moment and try again."
	MsgServiceUnavailable = "The listings service is unavailable right now. Please try again in a few minutes."
	MsgInvalidResponse    = "The listings service sent a response we could not read."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
