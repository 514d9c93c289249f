package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/shopsync/internal/cache"
	"github.com/avoronin/shopsync/internal/models"
)

func TestAuthLoginCachesProfileImage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"user": map[string]any{
				"id": "u1", "userName": "ann", "role": "user",
				"profileImage": "https://img.test/ann.png",
			},
		})
	})

	lc := testCache(t)
	auth := NewAuth(fb.client(), lc)
	require.NoError(t, auth.Login(context.Background(), "ann@test", "pw"))

	snap := auth.Snapshot()
	require.NotNil(t, snap.User)
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "https://img.test/ann.png", snap.User.ProfileImage)

	cached, found, err := lc.Get(cache.KeyProfileImage)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "https://img.test/ann.png", cached)
}

func TestAuthCheckAuthFillsImageFromCache(t *testing.T) {
	fb := newFakeBackend(t)
	fb.GET("/api/auth/check-auth", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"id": "u1", "userName": "ann", "role": "user"},
		})
	})

	lc := testCache(t)
	require.NoError(t, lc.Put(cache.KeyProfileImage, "https://img.test/cached.png"))

	auth := NewAuth(fb.client(), lc)
	require.NoError(t, auth.CheckAuth(context.Background()))

	snap := auth.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "https://img.test/cached.png", snap.User.ProfileImage,
		"cache fills the image the server omitted")
}

func TestAuthCheckAuthRejectedClearsSession(t *testing.T) {
	fb := newFakeBackend(t)
	fb.GET("/api/auth/check-auth", func(c echo.Context) error {
		return fail(c, http.StatusUnauthorized, "session expired")
	})

	auth := NewAuth(fb.client(), nil)
	auth.user = &models.User{ID: "u1", UserName: "ann"}
	auth.isAuthenticated = true

	require.Error(t, auth.CheckAuth(context.Background()))
	snap := auth.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
}

func TestAuthLogoutInvalidatesCache(t *testing.T) {
	fb := newFakeBackend(t)
	fb.POST("/api/auth/logout", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})

	lc := testCache(t)
	require.NoError(t, lc.Put(cache.KeyProfileImage, "https://img.test/ann.png"))

	auth := NewAuth(fb.client(), lc)
	require.NoError(t, auth.Logout(context.Background()))

	snap := auth.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)

	_, found, err := lc.Get(cache.KeyProfileImage)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAuthRegisterDoesNotLogIn(t *testing.T) {
	fb := newFakeBackend(t)
	fb.POST("/api/auth/register", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "registered"})
	})

	auth := NewAuth(fb.client(), nil)
	require.NoError(t, auth.Register(context.Background(), RegisterInput{
		UserName: "ann", Email: "ann@test", Password: "pw",
	}))

	snap := auth.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
}

func TestAuthRegisterValidation(t *testing.T) {
	auth := NewAuth(nil, nil)
	err := auth.Register(context.Background(), RegisterInput{UserName: "ann"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthUpdateProfileMergesUser(t *testing.T) {
	fb := newFakeBackend(t)
	fb.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"id": "u1", "userName": "ann", "email": "ann@test", "role": "user"},
		})
	})
	fb.PUT("/api/auth/profile", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"userName": "ann2"},
		})
	})

	auth := NewAuth(fb.client(), nil)
	require.NoError(t, auth.Login(context.Background(), "ann@test", "pw"))
	require.NoError(t, auth.UpdateProfile(context.Background(), ProfileUpdate{UserName: "ann2"}))

	snap := auth.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "ann2", snap.User.UserName)
	assert.Equal(t, "ann@test", snap.User.Email, "untouched fields survive the merge")
}

func TestAuthDeleteAccountClearsEverything(t *testing.T) {
	fb := newFakeBackend(t)
	fb.DELETE("/api/auth/profile", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})

	lc := testCache(t)
	require.NoError(t, lc.Put(cache.KeyProfileImage, "x"))

	auth := NewAuth(fb.client(), lc)
	require.NoError(t, auth.DeleteAccount(context.Background()))

	assert.Nil(t, auth.Snapshot().User)
	_, found, _ := lc.Get(cache.KeyProfileImage)
	assert.False(t, found)
}
