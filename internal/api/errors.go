package api

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/mlfs/internal/validation"
)

var (
	// ErrUnavailable indicates the API server could not be reached.
	ErrUnavailable = errors.New("api server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("api request timed out")

	// ErrUnexpectedStatus indicates a non-2xx response other than 400.
	ErrUnexpectedStatus = errors.New("unexpected api status")
)

// ErrorBody is a decoded HTTP 400 body.
type ErrorBody = validation.ServerErrors

// ValidationError is returned for HTTP 400 responses. Body holds the
// decoded field, file and page-level errors.
type ValidationError struct {
	Body ErrorBody
	Raw  []byte
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field errors, %d other", len(e.Body.Fields), len(e.Body.Other))
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func errorCode(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &ve):
		return "VALIDATION"
	case errors.Is(err, ErrUnexpectedStatus):
		return "STATUS"
	default:
		return "UNKNOWN"
	}
}
