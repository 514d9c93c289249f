package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/cache"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// Auth holds the session user. The profile image flows through the cache
// collaborator so it survives restarts: a server-provided value is written
// back, a missing one is filled from the cache.
type Auth struct {
	lifecycle
	client *api.Client
	cache  *cache.Cache

	user            *models.User
	isAuthenticated bool
}

func NewAuth(client *api.Client, c *cache.Cache) *Auth {
	return &Auth{client: client, cache: c}
}

type AuthSnapshot struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

func (s *Auth) Snapshot() AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var u *models.User
	if s.user != nil {
		copied := *s.user
		u = &copied
	}
	return AuthSnapshot{User: u, IsAuthenticated: s.isAuthenticated, IsLoading: s.isLoading, Err: s.err}
}

type RegisterInput struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Auth) Register(ctx context.Context, in RegisterInput) error {
	if in.UserName == "" || in.Email == "" || in.Password == "" {
		return fmt.Errorf("userName, email and password required: %w", ErrValidation)
	}
	s.pending(true)

	if err := s.client.DoEnvelope(ctx, http.MethodPost, "/api/auth/register", in, nil); err != nil {
		logging.FromContext(ctx).Error("register_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Registration failed"), nil)
		return err
	}

	// Registration does not log the user in.
	s.fulfilled(func() {
		s.user = nil
		s.isAuthenticated = false
	})
	return nil
}

type authResponse struct {
	User *models.User `json:"user"`
}

func (s *Auth) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := s.client.DoEnvelope(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		logging.FromContext(ctx).Error("login_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Login failed"), func() {
			s.user = nil
			s.isAuthenticated = false
		})
		return err
	}

	user := resp.User
	s.fillProfileImage(ctx, user)
	s.fulfilled(func() {
		s.user = user
		s.isAuthenticated = user != nil
	})
	return nil
}

// CheckAuth asks the server who the session cookie belongs to.
func (s *Auth) CheckAuth(ctx context.Context) error {
	s.pending(false)

	var resp authResponse
	if err := s.client.DoEnvelope(ctx, http.MethodGet, "/api/auth/check-auth", nil, &resp); err != nil {
		s.rejected("", func() {
			s.user = nil
			s.isAuthenticated = false
		})
		return err
	}

	user := resp.User
	s.fillProfileImage(ctx, user)
	s.fulfilled(func() {
		s.user = user
		s.isAuthenticated = user != nil
	})
	return nil
}

func (s *Auth) Logout(ctx context.Context) error {
	s.pending(true)

	if err := s.client.DoEnvelope(ctx, http.MethodPost, "/api/auth/logout", struct{}{}, nil); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Logout failed"), nil)
		return err
	}

	if err := s.cache.Invalidate(cache.KeyProfileImage); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "key", cache.KeyProfileImage, "error", err)
	}
	s.fulfilled(func() {
		s.user = nil
		s.isAuthenticated = false
	})
	return nil
}

type ProfileUpdate struct {
	UserName     string `json:"userName,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (s *Auth) UpdateProfile(ctx context.Context, in ProfileUpdate) error {
	s.pending(true)

	var resp authResponse
	if err := s.client.DoEnvelope(ctx, http.MethodPut, "/api/auth/profile", in, &resp); err != nil {
		logging.FromContext(ctx).Error("update_profile_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update profile"), nil)
		return err
	}

	if resp.User != nil && resp.User.ProfileImage != "" {
		if err := s.cache.Put(cache.KeyProfileImage, resp.User.ProfileImage); err != nil {
			logging.FromContext(ctx).Warn("cache_put_failed", "key", cache.KeyProfileImage, "error", err)
		}
	}
	s.fulfilled(func() {
		if resp.User != nil {
			s.mergeUser(resp.User)
		}
	})
	return nil
}

func (s *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("old and new passwords required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	if err := s.client.DoEnvelope(ctx, http.MethodPut, "/api/auth/change-password", body, nil); err != nil {
		logging.FromContext(ctx).Error("change_password_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Password change failed"), nil)
		return err
	}

	s.fulfilled(nil)
	return nil
}

func (s *Auth) DeleteAccount(ctx context.Context) error {
	s.pending(true)

	if err := s.client.DoEnvelope(ctx, http.MethodDelete, "/api/auth/profile", nil, nil); err != nil {
		logging.FromContext(ctx).Error("delete_account_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Account deletion failed"), nil)
		return err
	}

	if err := s.cache.Invalidate(cache.KeyProfileImage); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "key", cache.KeyProfileImage, "error", err)
	}
	s.fulfilled(func() {
		s.user = nil
		s.isAuthenticated = false
	})
	return nil
}

// fillProfileImage reconciles the server image with the cached one: server
// value wins and refreshes the cache, cache fills a missing value.
func (s *Auth) fillProfileImage(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}
	if user.ProfileImage != "" {
		if err := s.cache.Put(cache.KeyProfileImage, user.ProfileImage); err != nil {
			logging.FromContext(ctx).Warn("cache_put_failed", "key", cache.KeyProfileImage, "error", err)
		}
		return
	}
	if cached, ok, err := s.cache.Get(cache.KeyProfileImage); err == nil && ok {
		user.ProfileImage = cached
	}
}

// mergeUser overlays non-empty fields of upd onto the current user, the way
// the original spread-merged the profile responses.
func (s *Auth) mergeUser(upd *models.User) {
	if s.user == nil {
		copied := *upd
		s.user = &copied
		return
	}
	if upd.UserName != "" {
		s.user.UserName = upd.UserName
	}
	if upd.Email != "" {
		s.user.Email = upd.Email
	}
	if upd.Role != "" {
		s.user.Role = upd.Role
	}
	if upd.ProfileImage != "" {
		s.user.ProfileImage = upd.ProfileImage
	}
}
