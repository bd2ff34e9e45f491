package service

import "errors"

// ErrorKind classifies failures surfaced by a Service.
type ErrorKind string

const (
	// KindNoToken means no credential is configured.
	KindNoToken ErrorKind = "no_token"

	// KindInvalidToken means the remote rejected the credential (HTTP 401).
	// The stored credential has been cleared when this is returned.
	KindInvalidToken ErrorKind = "invalid_token"

	// KindTransport covers DNS, connection and timeout failures.
	KindTransport ErrorKind = "transport"

	// KindAPI is a non-2xx response carrying the server's message.
	KindAPI ErrorKind = "api_error"

	// KindInvalidResponse means a response lacked its expected shape.
	KindInvalidResponse ErrorKind = "invalid_response"

	// KindValidation means a required input was missing before any network call.
	KindValidation ErrorKind = "validation"
)

// Error is a classified service failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error of the given kind wrapping err.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err is not a service Error.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}

// IsKind reports whether err is a service Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
