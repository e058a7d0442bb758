package repository

import (
	"context"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/store"
)

// UserRepository exposes the locally cached profile records. It is a
// thin layer over the user store; profiles are written by the auth
// flow and read by the UI, never fetched on their own.
type UserRepository struct {
	users store.UserStore
}

func NewUserRepository(users store.UserStore) *UserRepository {
	return &UserRepository{users: users}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	return r.users.ByID(ctx, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.users.ByUsername(ctx, username)
}

// CurrentUser returns the profile flagged current, or nil when nobody
// is logged in.
func (r *UserRepository) CurrentUser(ctx context.Context) (*domain.User, error) {
	return r.users.Current(ctx)
}

func (r *UserRepository) All(ctx context.Context) ([]domain.User, error) {
	return r.users.All(ctx)
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	return r.users.Save(ctx, u)
}

// SetCurrentUser flips the current flag to an already cached user.
// The clear-then-set runs in one transaction in the store.
func (r *UserRepository) SetCurrentUser(ctx context.Context, id int) error {
	return r.users.SetCurrent(ctx, id)
}

func (r *UserRepository) ClearCurrentUser(ctx context.Context) error {
	return r.users.ClearCurrent(ctx)
}

// Update rewrites the mutable profile fields, preserving the gender
// and current-user flag already cached for the row.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.users.Update(ctx, u)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	return r.users.Delete(ctx, id)
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	return r.users.DeleteAll(ctx)
}
