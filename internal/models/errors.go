package models

import "errors"

// Error taxonomy surfaced by the core services. Callers match with errors.Is;
// the HTTP layer translates these into status codes and nothing else does.
var (
	// ErrNotFound covers both absent rows and rows soft-deleted beyond the
	// caller's visibility.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is a scope-unique name violation (global vs per-business
	// scopes are compared by identity, not merged).
	ErrDuplicateName = errors.New("name already exists in scope")

	// ErrConflict is any other uniqueness violation, e.g. an identical record
	// for the same site, type, and anchor date.
	ErrConflict = errors.New("conflicting row already exists")

	// ErrCrossScope is an ownership mismatch: a site outside the record's
	// client, or an equipment type not visible to the record's business.
	ErrCrossScope = errors.New("entity belongs to a different scope")

	// ErrRecurrencePattern is a malformed or unsupported recurrence expression.
	ErrRecurrencePattern = errors.New("invalid recurrence pattern")

	// ErrNotDeleted is a restore on an entity that has no tombstone.
	ErrNotDeleted = errors.New("entity is not deleted")
)
