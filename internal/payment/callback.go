package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/avoronin/shopsync/internal/httpmw"
	"github.com/avoronin/shopsync/internal/models"
)

// CallbackServer is the redirect-based Launcher: the hosted checkout page
// sends the shopper back to one of its two routes, which resolves the
// handlers registered for that gateway order and issues the final redirect.
type CallbackServer struct {
	e          *echo.Echo
	addr       string
	successURL string
	failureURL string

	mu       sync.Mutex
	handlers map[string]Handlers
}

func NewCallbackServer(addr, successURL, failureURL string, log *slog.Logger) *CallbackServer {
	s := &CallbackServer{
		addr:       addr,
		successURL: successURL,
		failureURL: failureURL,
		handlers:   make(map[string]Handlers),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(httpmw.RequestLogger(log))
	e.GET("/payment/callback/success", s.handleSuccess)
	e.GET("/payment/callback/failure", s.handleFailure)
	s.e = e
	return s
}

// Open registers the handlers the next callback for this order will invoke.
func (s *CallbackServer) Open(_ context.Context, order *models.GatewayOrder, h Handlers) error {
	if order == nil || order.ID == "" {
		return fmt.Errorf("gateway order descriptor required")
	}
	s.mu.Lock()
	s.handlers[order.ID] = h
	s.mu.Unlock()
	return nil
}

// Start blocks serving callbacks until Shutdown.
func (s *CallbackServer) Start() error {
	err := s.e.Start(s.addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *CallbackServer) handleSuccess(c echo.Context) error {
	res := Result{
		PaymentID: c.QueryParam("paymentId"),
		PayerID:   c.QueryParam("payerId"),
		OrderID:   c.QueryParam("orderId"),
	}

	h, ok := s.take(res.OrderID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown order")
	}
	if h.OnSuccess != nil {
		h.OnSuccess(c.Request().Context(), res)
	}
	return c.Redirect(http.StatusFound, s.successURL)
}

func (s *CallbackServer) handleFailure(c echo.Context) error {
	res := Result{OrderID: c.QueryParam("orderId")}

	h, ok := s.take(res.OrderID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown order")
	}
	if h.OnFailure != nil {
		h.OnFailure(c.Request().Context(), res)
	}
	return c.Redirect(http.StatusFound, s.failureURL)
}

// take removes and returns the handlers for an order. One callback per
// registration: a second redirect for the same order 404s instead of
// re-capturing.
func (s *CallbackServer) take(orderID string) (Handlers, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handlers[orderID]
	if ok {
		delete(s.handlers, orderID)
	}
	return h, ok
}
