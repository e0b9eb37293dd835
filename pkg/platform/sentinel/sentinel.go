// Package sentinel names the storage outcomes services branch on. Stores
// return these, possibly wrapped, and services map them to domain errors.
// Input validation failures belong in pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound means no row or entry has the requested key.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness rule rejected the write.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the entity exists but its current state forbids
	// the change, such as a winner that is already set.
	ErrInvalidState = errors.New("invalid state")
)
