package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/cache"
)

const (
	roleCacheKeyPrefix = "user-role-"
	roleCacheTTL       = 300
)

type identityUsecase struct {
	userRepo domain.UserRepository
	cache    *cache.Cache
	schema   domain.SchemaState
	log      *slog.Logger
}

// NewIdentityUsecase creates the identity bridge between external auth
// identifiers and internal user rows.
func NewIdentityUsecase(userRepo domain.UserRepository, c *cache.Cache, schema domain.SchemaState, log *slog.Logger) domain.IdentityUsecase {
	return &identityUsecase{
		userRepo: userRepo,
		cache:    c,
		schema:   schema,
		log:      log,
	}
}

// ResolveOrCreateUser returns the internal user ID for the given auth uid,
// creating the row on first sight. Safe to call repeatedly; concurrent
// first-syncs converge on a single row via the unique constraint.
func (u *identityUsecase) ResolveOrCreateUser(ctx context.Context, uid, email, displayName, avatarURL string) (string, error) {
	if existing, err := u.lookup(ctx, uid, email); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	if !u.schema.HasAuthUID {
		// No linking column and no row matched by email. Creating a row
		// here would leave it unreachable by uid, so surface the drift.
		return "", fmt.Errorf("cannot create user while auth_uid column is missing: %w", domain.ErrSchemaDrift)
	}

	name := displayName
	if name == "" {
		name = email
	}
	var avatar *string
	if avatarURL != "" {
		avatar = &avatarURL
	}
	user := &domain.User{
		ID:        uuid.NewString(),
		AuthUID:   &uid,
		Email:     email,
		Name:      name,
		AvatarURL: avatar,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race to a concurrent sync; the winner's row is ours.
			winner, lookupErr := u.lookup(ctx, uid, email)
			if lookupErr != nil {
				return "", fmt.Errorf("conflict on user create but lookup failed: %w", lookupErr)
			}
			return winner.ID, nil
		}
		return "", err
	}

	u.log.Info("user created", "user_id", user.ID, "role", user.Role)
	return user.ID, nil
}

// LookupRole returns the role for the given auth uid. Failures of any kind
// degrade to the least-privileged role rather than an error.
func (u *identityUsecase) LookupRole(ctx context.Context, uid string) string {
	cacheKey := roleCacheKeyPrefix + uid

	var cached string
	if u.cache.Get(ctx, cacheKey, &cached) && cached != "" {
		return cached
	}

	role, err := u.userRepo.GetRoleByAuthUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn("role lookup failed, defaulting to user", "error", err)
		}
		role = domain.RoleUser
	}

	u.cache.Set(ctx, cacheKey, role, roleCacheTTL)
	return role
}

// SetRole updates a user's role. The caller must already be an admin.
func (u *identityUsecase) SetRole(ctx context.Context, userID, role string) error {
	if callerRole, _ := ctx.Value(domain.KeyUserRole).(string); callerRole != domain.RoleAdmin {
		return fmt.Errorf("role change requires admin privileges: %w", domain.ErrForbidden)
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return fmt.Errorf("unknown role %q: %w", role, domain.ErrInvalidInput)
	}
	if err := u.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	u.log.Info("user role updated", "user_id", userID, "role", role)
	return nil
}

// lookup finds the user by auth uid when the linking column exists, falling
// back to email when the column is missing or drops out at query time.
func (u *identityUsecase) lookup(ctx context.Context, uid, email string) (*domain.User, error) {
	if u.schema.HasAuthUID {
		user, err := u.userRepo.GetByAuthUID(ctx, uid)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrSchemaDrift) {
			return nil, err
		}
		u.log.Warn("auth_uid lookup hit missing column, falling back to email")
	}
	if email == "" {
		return nil, domain.ErrNotFound
	}
	return u.userRepo.GetByEmail(ctx, email)
}
