// Package exitcode defines exit codes for the CLI.
package exitcode

import "clickform/internal/service"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, missing settings, validation).
	UserError = 1

	// AuthError indicates a missing or rejected API token.
	AuthError = 2

	// BackendError indicates a remote API or network error.
	BackendError = 3
)

// FromError maps a service error to an exit code. Errors that are not
// service errors count as backend errors.
func FromError(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return UserError
	case service.KindNoToken, service.KindInvalidToken:
		return AuthError
	default:
		return BackendError
	}
}

// Label names the error class used in "error: <label>: ..." messages.
func Label(code int) string {
	switch code {
	case UserError:
		return "invalid input"
	case AuthError:
		return "auth error"
	default:
		return "backend error"
	}
}
