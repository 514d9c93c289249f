package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
	"github.com/avoronin/shopsync/internal/payment"
	"github.com/avoronin/shopsync/internal/store"
)

var ErrValidation = errors.New("validation")

// Pages the shopper lands on after the flow resolves.
const (
	SuccessPage = "/shop/payment-success"
	FailurePage = "/shop/payment-failure"
)

// Navigator performs the final redirect. In a browser this would be a
// location change; consumers inject whatever applies.
type Navigator func(url string)

// Service runs the linear checkout sequence: validate session, cart and
// address, place the order, then branch on payment method. COD resolves
// immediately; the online gateway resolves through the launcher's callback.
type Service struct {
	auth     *store.Auth
	cart     *store.Cart
	orders   *store.Orders
	launcher payment.Launcher
	navigate Navigator
}

func New(auth *store.Auth, cart *store.Cart, orders *store.Orders, launcher payment.Launcher, navigate Navigator) *Service {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Service{auth: auth, cart: cart, orders: orders, launcher: launcher, navigate: navigate}
}

// Submit places the order for the current session and cart. The total is
// recomputed here from effective prices; the server gets the derived value.
func (s *Service) Submit(ctx context.Context, address models.AddressInfo, paymentMethod string) error {
	l := logging.FromContext(ctx).With("flow", "checkout")

	user := s.auth.Snapshot().User
	if user == nil || user.ID == "" {
		return fmt.Errorf("please log in to proceed with payment: %w", ErrValidation)
	}

	cart := s.cart.Snapshot().Cart
	if len(cart.Items) == 0 {
		return fmt.Errorf("your cart is empty, add items to proceed: %w", ErrValidation)
	}

	if address.Address == "" || address.City == "" || address.Pincode == "" || address.Phone == "" {
		return fmt.Errorf("a complete address with phone number is required: %w", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID == "" {
			return fmt.Errorf("cart item without product id: %w", ErrValidation)
		}
		if item.Quantity == 0 {
			return fmt.Errorf("cart item with zero quantity: %w", ErrValidation)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     round2(item.EffectivePrice()),
			Quantity:  item.Quantity,
		})
	}

	in := store.CreateOrderInput{
		UserID:        user.ID,
		CartID:        cart.ID,
		CartItems:     items,
		AddressInfo:   address,
		PaymentMethod: paymentMethod,
		TotalAmount:   s.cart.TotalAmount(),
	}

	gateway, err := s.orders.Create(ctx, in)
	if err != nil {
		l.Error("order_create_failed", "error", err)
		return err
	}

	if paymentMethod == models.PaymentMethodCOD {
		// COD never touches the payment widget.
		s.cart.Clear()
		s.navigate(SuccessPage)
		l.Info("checkout_completed", "method", "cod")
		return nil
	}

	if gateway == nil {
		return fmt.Errorf("gateway order missing from create response: %w", ErrValidation)
	}

	err = s.launcher.Open(ctx, gateway, payment.Handlers{
		OnSuccess: s.onPaymentSuccess,
		OnFailure: s.onPaymentFailure,
	})
	if err != nil {
		l.Error("launcher_open_failed", "error", err)
		return err
	}
	l.Info("checkout_awaiting_gateway", "gateway_order_id", gateway.ID)
	return nil
}

func (s *Service) onPaymentSuccess(ctx context.Context, res payment.Result) {
	l := logging.FromContext(ctx).With("flow", "checkout")

	orderID := s.orders.CurrentOrderID()
	if err := s.orders.Capture(ctx, res.PaymentID, res.PayerID, orderID); err != nil {
		l.Error("capture_failed", "order_id", orderID, "error", err)
		s.navigate(FailurePage)
		return
	}
	s.cart.Clear()
	s.navigate(SuccessPage)
	l.Info("checkout_completed", "method", "online", "order_id", orderID)
}

func (s *Service) onPaymentFailure(ctx context.Context, res payment.Result) {
	logging.FromContext(ctx).Warn("payment_failed", "gateway_order_id", res.OrderID)
	s.navigate(FailurePage)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
