package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/auth"
)

// MapError converts a technical error into a user-friendly AppError.
// Cancelled requests map to nil: the user asked for them to stop.
func MapError(err error) *AppError {
	if err == nil || apiclient.IsCanceled(err) {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	var verr *validators.ValidationError
	if stderrors.As(err, &verr) {
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgValidationFailed,
			Code:             ErrCodeValidationFailed,
			HTTPStatus:       http.StatusBadRequest,
			Fields:           verr.Fields,
			OriginalError:    err,
		}
	}

	if stderrors.Is(err, auth.ErrNoToken) {
		return NewAppError(technicalMessage, MsgNotLoggedIn, ErrCodeSessionExpired, http.StatusUnauthorized, err)
	}

	var apiErr *apiclient.Error
	if !stderrors.As(err, &apiErr) {
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}

	switch apiErr.Kind {
	case apiclient.KindNetwork:
		return NewAppError(technicalMessage, MsgNetwork, ErrCodeNetwork, http.StatusServiceUnavailable, err)
	case apiclient.KindDecode:
		return NewAppError(technicalMessage, MsgInvalidResponse, ErrCodeInvalidResponse, http.StatusBadGateway, err)
	}

	switch status := apiErr.Status; {
	case status == http.StatusUnauthorized:
		return NewAppError(technicalMessage, MsgSessionExpired, ErrCodeSessionExpired, status, err)
	case status == http.StatusForbidden:
		return NewAppError(technicalMessage, MsgForbidden, ErrCodeForbidden, status, err)
	case status == http.StatusNotFound && strings.Contains(apiErr.URL, "/properties"):
		return NewAppError(technicalMessage, MsgPropertyNotFound, ErrCodePropertyNotFound, status, err)
	case status == http.StatusNotFound:
		return NewAppError(technicalMessage, MsgNotFound, ErrCodeNotFound, status, err)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		// the server's own message is meant for the user
		msg := MsgValidationFailed
		if apiErr.Message != "" && !strings.HasPrefix(apiErr.Message, "HTTP ") {
			msg = apiErr.Message
		}
		return NewAppError(technicalMessage, msg, ErrCodeValidationFailed, status, err)
	case status == http.StatusTooManyRequests:
		return NewAppError(technicalMessage, MsgRateLimited, ErrCodeRateLimited, status, err)
	case status >= 500:
		return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeServiceUnavailable, status, err)
	default:
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, status, err)
	}
}
