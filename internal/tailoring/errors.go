package tailoring

import "fmt"

// ValidationError represents a user-fixable request problem. Field names the
// first offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// QuotaExceededError indicates the free-tier generation ceiling was hit.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("free generation limit of %d reached", e.Limit)
}

// UpstreamError indicates the rewrite service failed on every attempt.
type UpstreamError struct {
	Attempts int
	Cause    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("rewrite service failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// InvalidResponseError indicates the rewrite service returned a payload that
// does not satisfy the result schema. RawPrefix holds the start of the raw
// payload for diagnosis; it is logged, never returned to the user.
type InvalidResponseError struct {
	RawPrefix string
	Cause     error
}

func (e *InvalidResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid rewrite response: %v", e.Cause)
	}
	return "invalid rewrite response"
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Cause
}

// PersistError indicates the generation record or usage counter write
// failed after a successful rewrite. The user must not be told the request
// succeeded.
type PersistError struct {
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist generation: %v", e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
