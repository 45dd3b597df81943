package postgres

import (
	"errors"

	"go-course-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
	pgUndefinedColumn = "42703"
)

// translateError maps driver errors to domain sentinels so usecases never
// branch on Postgres error codes.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrConflict
		case pgUndefinedColumn:
			return domain.ErrSchemaDrift
		}
	}
	return err
}
