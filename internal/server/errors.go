// Package server provides the HTTP REST API for the resume tailoring
// service.
package server

import (
	"fmt"
	"net/http"

	"github.com/nicktperez/resume-tailor/internal/tailoring"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// HTTPStatus returns the HTTP status code for an error. Pipeline errors
// follow the taxonomy: validation 400, quota 402, upstream/invalid
// response/persist 500.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *tailoring.ValidationError:
		return http.StatusBadRequest
	case *tailoring.QuotaExceededError:
		return http.StatusPaymentRequired
	case *tailoring.UpstreamError, *tailoring.InvalidResponseError, *tailoring.PersistError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// SafeMessage returns the user-facing message for an error. Internal detail
// from upstream, validation, or persistence failures never crosses the API
// boundary; those callers get a generic retry message.
func SafeMessage(err error) string {
	switch e := err.(type) {
	case *tailoring.ValidationError:
		return e.Message
	case *tailoring.QuotaExceededError:
		return "Upgrade to Pro for unlimited resumes."
	case *ErrEmailAlreadyExists, *ErrInvalidCredentials:
		return e.Error()
	default:
		return "Failed to tailor your resume. Please try again."
	}
}
