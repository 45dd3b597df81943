package postgres

import (
	"context"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProbeSchema inspects the live schema once at startup so business logic can
// branch on migration status instead of sniffing error codes per request.
// A probe failure is treated as "not migrated yet": the identity bridge then
// uses its email fallback, which is always safe.
func ProbeSchema(ctx context.Context, db *pgxpool.Pool) domain.SchemaState {
	state := domain.SchemaState{}

	hasAuthUID, err := hasColumn(ctx, db, "users", "auth_uid")
	if err != nil {
		logger.Log.Warn("schema probe failed, assuming users.auth_uid absent", "error", err)
		return state
	}
	state.HasAuthUID = hasAuthUID

	if !hasAuthUID {
		logger.Log.Warn("users.auth_uid column not found; identity lookups will fall back to email until the migration lands")
	}
	return state
}

func hasColumn(ctx context.Context, db *pgxpool.Pool, table, column string) (bool, error) {
	query := `SELECT EXISTS (
                SELECT 1 FROM information_schema.columns
                WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
              )`
	var exists bool
	err := db.QueryRow(ctx, query, table, column).Scan(&exists)
	return exists, err
}
