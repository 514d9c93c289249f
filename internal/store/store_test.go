package store

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/avoronin/shopsync/internal/api"
)

// fakeBackend plays the remote storefront service in container tests.
type fakeBackend struct {
	*echo.Echo
	srv  *httptest.Server
	hits int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	e := echo.New()
	fb := &fakeBackend{Echo: e}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt32(&fb.hits, 1)
			return next(c)
		}
	})
	fb.srv = httptest.NewServer(e)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (f *fakeBackend) client() *api.Client {
	return api.NewClient(f.srv.URL)
}

func (f *fakeBackend) requests() int {
	return int(atomic.LoadInt32(&f.hits))
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]any{"success": false, "message": msg})
}
