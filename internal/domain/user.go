package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string    `json:"id"`
	AuthUID   *string   `json:"auth_uid,omitempty"` // subject id from the external identity provider, nil until backfilled
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByAuthUID(ctx context.Context, uid string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRoleByAuthUID(ctx context.Context, uid string) (string, error)
	UpdateRole(ctx context.Context, id string, role string) error
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]User, error)
}

// IdentityUsecase bridges the external auth provider's subject ids to local
// user rows. Resolution is idempotent: concurrent first-logins for the same
// subject converge on a single row.
type IdentityUsecase interface {
	ResolveOrCreateUser(ctx context.Context, uid, email, displayName, avatarURL string) (string, error)
	LookupRole(ctx context.Context, uid string) string
	SetRole(ctx context.Context, userID, role string) error
}
