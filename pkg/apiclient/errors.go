package apiclient

import (
	"context"
	"errors"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindNetwork is a transport failure: DNS, refused connection, reset,
	// deadline exceeded.
	KindNetwork Kind = iota + 1
	// KindDecode means the response could not be decoded into the caller's value.
	KindDecode
	// KindHTTP is a non-2xx response.
	KindHTTP
	// KindCanceled means the request's context was cancelled by its owner.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindHTTP:
		return "http"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned for every failed request.
type Error struct {
	Kind   Kind
	Method string
	URL    string
	// Status is the HTTP status code for KindHTTP, zero otherwise.
	Status int
	// Message is the human readable reason: the server's JSON "message",
	// the text body, or "HTTP <status>".
	Message string
	// Body is the raw response body for KindHTTP and KindDecode.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether err comes from a deliberately cancelled request.
func IsCanceled(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindCanceled
	}
	return errors.Is(err, context.Canceled)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTP {
		return apiErr.Status
	}
	return 0
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
