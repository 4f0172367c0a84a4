package chapa

import "errors"

type ErrorKind string

const (
	// ErrKindRejected means the provider answered and declared failure.
	ErrKindRejected ErrorKind = "rejected"
	// ErrKindUnavailable means the provider could not be reached at all.
	ErrKindUnavailable ErrorKind = "unavailable"
)

// Error is a failed gateway call. Details carries whatever the provider
// returned so handlers can pass it through.
type Error struct {
	Kind    ErrorKind
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return "chapa: " + e.Message
	}
	return "chapa: " + string(e.Kind)
}

// IsUnavailable reports whether err is a transport-level gateway failure.
func IsUnavailable(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == ErrKindUnavailable
}

// IsRejected reports whether the provider responded but declared failure.
func IsRejected(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == ErrKindRejected
}
