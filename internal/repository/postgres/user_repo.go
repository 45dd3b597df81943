package postgres

import (
	"context"

	"go-course-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, auth_uid, email, name, avatar_url, role, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.AuthUID, user.Email, user.Name, user.AvatarURL, user.Role, user.CreatedAt,
	)
	return translateError(err)
}

func (r *userRepo) GetByAuthUID(ctx context.Context, uid string) (*domain.User, error) {
	query := `SELECT id, auth_uid, email, name, avatar_url, role, created_at
              FROM users WHERE auth_uid = $1`
	return r.scanOne(ctx, query, uid)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, auth_uid, email, name, avatar_url, role, created_at
              FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *userRepo) GetRoleByAuthUID(ctx context.Context, uid string) (string, error) {
	query := `SELECT role FROM users WHERE auth_uid = $1`
	var role string
	if err := r.db.QueryRow(ctx, query, uid).Scan(&role); err != nil {
		return "", translateError(err)
	}
	return role, nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role string) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id, role)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, translateError(err)
}

func (r *userRepo) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	query := `SELECT id, auth_uid, email, name, avatar_url, role, created_at
              FROM users ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.AuthUID, &u.Email, &u.Name, &u.AvatarURL, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepo) scanOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.AuthUID, &u.Email, &u.Name, &u.AvatarURL, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}
