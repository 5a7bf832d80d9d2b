package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrInternal = errors.New("internal")

	// ErrConfig marks a construction-time misconfiguration. Fatal, never
	// swallowed into a degraded mode.
	ErrConfig = errors.New("configuration error")

	// ErrNotReady is returned by the strict-mode startup check when the
	// process has neither a reachable remote vector store nor any
	// generation tier configured.
	ErrNotReady = errors.New("not ready")

	// ErrStoreUnavailable marks a vector-store tier that cannot serve
	// requests. Search paths degrade it to an empty result set.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)

// Is re-exports the stdlib matcher so callers need only one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}
