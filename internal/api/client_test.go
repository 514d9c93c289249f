package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*echo.Echo, *Client) {
	t.Helper()
	e := echo.New()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return e, NewClient(srv.URL)
}

func TestDo_DecodesDataField(t *testing.T) {
	e, client := newBackend(t)
	e.GET("/api/shop/products/get/p1", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "p1", "title": "Mug"},
		})
	})

	var out struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	}
	err := client.Get(context.Background(), "/api/shop/products/get/p1", &out)
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID)
	assert.Equal(t, "Mug", out.Title)
}

func TestDo_SuccessFalseRejectsWithMessage(t *testing.T) {
	e, client := newBackend(t)
	e.POST("/api/shop/cart/add", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"message": "product out of stock",
		})
	})

	err := client.Post(context.Background(), "/api/shop/cart/add", map[string]any{"productId": "p1"}, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRemote)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "product out of stock", re.Message)
}

func TestDo_Non2xxWithoutEnvelopeRejects(t *testing.T) {
	e, client := newBackend(t)
	e.GET("/api/admin/orders/get", func(c echo.Context) error {
		return c.String(http.StatusBadGateway, "upstream down")
	})

	err := client.Get(context.Background(), "/api/admin/orders/get", nil)
	require.Error(t, err)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadGateway, re.StatusCode)
}

func TestDo_TransportFailureFallsBackToGenericMessage(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	err := client.Get(context.Background(), "/api/shop/products/get", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "network error")
}

func TestDoEnvelope_DecodesRootFields(t *testing.T) {
	e, client := newBackend(t)
	e.GET("/api/admin/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"users":   []map[string]any{{"id": "u1", "userName": "ann"}},
		})
	})

	var out struct {
		Users []struct {
			ID       string `json:"id"`
			UserName string `json:"userName"`
		} `json:"users"`
	}
	err := client.DoEnvelope(context.Background(), http.MethodGet, "/api/admin/users", nil, &out)
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "ann", out.Users[0].UserName)
}

func TestSessionCookiePersistsAcrossCalls(t *testing.T) {
	e, client := newBackend(t)
	e.POST("/api/auth/login", func(c echo.Context) error {
		c.SetCookie(&http.Cookie{Name: "token", Value: "abc", Path: "/"})
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})
	var gotCookie string
	e.GET("/api/auth/check-auth", func(c echo.Context) error {
		if ck, err := c.Cookie("token"); err == nil {
			gotCookie = ck.Value
		}
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})

	require.NoError(t, client.Post(context.Background(), "/api/auth/login", struct{}{}, nil))
	require.NoError(t, client.Get(context.Background(), "/api/auth/check-auth", nil))
	assert.Equal(t, "abc", gotCookie)

	val, ok := client.SessionCookie("token")
	require.True(t, ok)
	assert.Equal(t, "abc", val)
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "", Query(nil, ""))
	assert.Equal(t, "?sortBy=price-lowtohigh", Query(nil, "price-lowtohigh"))
	got := Query(map[string]string{"category": "men", "brand": ""}, "title-atoz")
	assert.Equal(t, "?category=men&sortBy=title-atoz", got)
}

func TestErrorMessage(t *testing.T) {
	re := &RemoteError{Message: "boom"}
	assert.Equal(t, "boom", ErrorMessage(re, "fallback"))
	assert.Equal(t, "fallback", ErrorMessage(nil, "fallback"))
}
