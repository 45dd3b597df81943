package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert hits a unique constraint.
	ErrConflict = errors.New("already exists")

	// ErrInvalidInput is returned when a value fails business validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrSchemaDrift is returned when a query references a column that has
	// not been migrated yet (Postgres 42703, undefined_column). Callers are
	// expected to degrade rather than fail hard.
	ErrSchemaDrift = errors.New("expected column not migrated yet")
)

// SchemaState captures the result of the startup schema probe. It exists so
// that business logic can branch on migration status without sniffing
// driver-specific error codes on every request.
type SchemaState struct {
	// HasAuthUID reports whether users.auth_uid exists. While the column is
	// being backfilled, identity lookups fall back to email.
	HasAuthUID bool
}
