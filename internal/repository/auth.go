package repository

import (
	"context"
	"strings"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/session"
	"github.com/gencidev/storefront/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthRepository runs the login/logout flow: remote authentication,
// token persistence and the current-user switch in the profile cache.
type AuthRepository struct {
	api     remote.AuthAPI
	users   store.UserStore
	session *session.Store
}

func NewAuthRepository(api remote.AuthAPI, users store.UserStore, sess *session.Store) *AuthRepository {
	return &AuthRepository{api: api, users: users, session: sess}
}

// Login authenticates against the remote service. Blank credentials
// are rejected before any I/O. On success the tokens are persisted and
// the returned profile becomes the current user; a profile-cache
// failure downgrades to a warning so a flaky local store cannot block
// login.
func (r *AuthRepository) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.Wrap(ErrValidation, "username and password are required")
	}

	resp, err := r.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := r.session.SaveTokens(resp.AccessToken, resp.RefreshToken, resp.ID, resp.Username); err != nil {
		return nil, errors.Wrap(err, "persist session")
	}

	user := resp.ToDomain()
	if err := r.users.SaveAsCurrent(ctx, &user); err != nil {
		zap.L().Warn("failed to cache profile after login",
			zap.Int("user_id", user.ID), zap.Error(err))
	}
	return &user, nil
}

// Logout clears the stored tokens and the current-user flag.
func (r *AuthRepository) Logout(ctx context.Context) error {
	if err := r.session.Clear(); err != nil {
		return errors.Wrap(err, "clear session")
	}
	if err := r.users.ClearCurrent(ctx); err != nil {
		zap.L().Warn("failed to clear current user on logout", zap.Error(err))
	}
	return nil
}

// IsLoggedIn reports whether a usable access token is stored.
func (r *AuthRepository) IsLoggedIn() bool {
	return r.session.LoggedIn()
}

// CurrentUser returns the cached profile of the logged-in user.
func (r *AuthRepository) CurrentUser(ctx context.Context) (*domain.User, error) {
	return r.users.Current(ctx)
}
