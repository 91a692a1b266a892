package esgo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTransport is returned when a dispatch method is called on a
	// builder that has no transport configured. It is deliberately distinct
	// from the missing-field errors so callers can tell a wiring mistake
	// apart from an incomplete request.
	ErrNoTransport = errors.New("no transport configured")

	// ErrMissingSource is returned by Store when no source document was set.
	ErrMissingSource = errors.New("store requires a source document")

	// ErrMissingScriptOrSource is returned by Update when neither a script
	// nor a source document was set.
	ErrMissingScriptOrSource = errors.New("update requires a script or a source document")

	// ErrEmptyBulk is returned when a bulk request is dispatched with no actions.
	ErrEmptyBulk = errors.New("bulk request has no actions")

	// ErrEmptyMultiGet is returned when a multi-get request is dispatched
	// with no documents.
	ErrEmptyMultiGet = errors.New("multi-get request has no documents")
)

// MissingFieldError indicates that a dispatch precondition failed because a
// required identity field was never set. Op names the operation that was
// attempted, Field the missing field.
type MissingFieldError struct {
	Op    string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s requires %s to be set", e.Op, e.Field)
}

// InvalidValueError indicates that an enumerated option was given a value
// outside its fixed set. In lenient mode the value is dropped silently and
// this error never surfaces; in strict mode it is recorded on the builder
// and returned by the next dispatch call.
type InvalidValueError struct {
	Option  string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (allowed: %s)", e.Option, e.Value, strings.Join(e.Allowed, ", "))
}

// StatusError carries a non-2xx engine response. The builder itself never
// returns it (any response, error or not, comes back as a *Response); the
// transport subpackage uses it internally to classify retryable statuses,
// and callers may use it the same way.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type StatusError struct {
	StatusCode int
	Body       []byte
	cause      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.cause }

// NewStatusError creates a StatusError for the given response status and body.
func NewStatusError(statusCode int, body []byte) *StatusError {
	return &StatusError{StatusCode: statusCode, Body: body}
}
