package payment

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/shopsync/internal/models"
)

func newServer(t *testing.T) (*CallbackServer, *httptest.Server) {
	t.Helper()
	s := NewCallbackServer(":0", "/shop/payment-success", "/shop/payment-failure", slog.Default())
	srv := httptest.NewServer(s.e)
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSuccessCallbackInvokesHandlerAndRedirects(t *testing.T) {
	s, srv := newServer(t)

	var got Result
	err := s.Open(context.Background(), &models.GatewayOrder{ID: "rzp_1", Amount: 100, Currency: "INR"}, Handlers{
		OnSuccess: func(_ context.Context, res Result) { got = res },
	})
	require.NoError(t, err)

	resp := get(t, srv.URL+"/payment/callback/success?orderId=rzp_1&paymentId=pay_1&payerId=payer_1")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/shop/payment-success", resp.Header.Get("Location"))

	assert.Equal(t, Result{PaymentID: "pay_1", PayerID: "payer_1", OrderID: "rzp_1"}, got)
}

func TestFailureCallbackRedirectsToFailurePage(t *testing.T) {
	s, srv := newServer(t)

	failed := false
	require.NoError(t, s.Open(context.Background(), &models.GatewayOrder{ID: "rzp_2"}, Handlers{
		OnFailure: func(_ context.Context, _ Result) { failed = true },
	}))

	resp := get(t, srv.URL+"/payment/callback/failure?orderId=rzp_2")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/shop/payment-failure", resp.Header.Get("Location"))
	assert.True(t, failed)
}

func TestCallbackIsOneShot(t *testing.T) {
	s, srv := newServer(t)

	calls := 0
	require.NoError(t, s.Open(context.Background(), &models.GatewayOrder{ID: "rzp_3"}, Handlers{
		OnSuccess: func(_ context.Context, _ Result) { calls++ },
	}))

	first := get(t, srv.URL+"/payment/callback/success?orderId=rzp_3")
	assert.Equal(t, http.StatusFound, first.StatusCode)

	second := get(t, srv.URL+"/payment/callback/success?orderId=rzp_3")
	assert.Equal(t, http.StatusNotFound, second.StatusCode)
	assert.Equal(t, 1, calls, "a replayed redirect must not re-capture")
}

func TestUnknownOrderIs404(t *testing.T) {
	_, srv := newServer(t)

	resp := get(t, srv.URL+"/payment/callback/success?orderId=ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpenRequiresDescriptor(t *testing.T) {
	s, _ := newServer(t)

	require.Error(t, s.Open(context.Background(), nil, Handlers{}))
	require.Error(t, s.Open(context.Background(), &models.GatewayOrder{}, Handlers{}))
}
