package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("too many requests")

	// Purchase verification
	ErrEmptyCode        = errors.New("purchase code is empty")
	ErrInvalidCode      = errors.New("purchase code is not valid")
	ErrTransportFailure = errors.New("marketplace request failed")

	// Registry
	ErrCodeAlreadyRegistered = errors.New("purchase code already registered")
	ErrCodeBusy              = errors.New("purchase code is locked by another registration")

	// Storage plumbing
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)

// Kind returns a stable, machine-readable name for the domain error wrapped in err.
// Unknown errors map to "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCode):
		return "empty_code"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrTransportFailure):
		return "transport_failure"
	case errors.Is(err, ErrCodeAlreadyRegistered):
		return "code_already_registered"
	case errors.Is(err, ErrCodeBusy):
		return "code_busy"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
