package domain

import "errors"

var (
	// ErrNotAuthorized is returned when a mutation is attempted without manage rights.
	ErrNotAuthorized = errors.New("not authorized to manage rubric")
	// ErrAlreadyInitialized is returned when seeding a scope that already has criteria.
	ErrAlreadyInitialized = errors.New("rubric already initialized")
	// ErrNotFound is returned when a criterion key does not exist in scope.
	ErrNotFound = errors.New("criterion not found")
	// ErrInvalidCriterion is returned for malformed criterion input.
	ErrInvalidCriterion = errors.New("invalid criterion")
	// ErrStoreUnavailable wraps failures of the backing row store.
	ErrStoreUnavailable = errors.New("criteria store unavailable")
)
