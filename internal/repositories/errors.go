package repositories

import "errors"

// Sentinel errors shared by every repository implementation. Callers match
// them with errors.Is and translate to domain errors at the service layer.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a conditional write lost: a unique constraint
	// fired or an optimistic version check did not match.
	ErrConflict = errors.New("write conflict")
)
