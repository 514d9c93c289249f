package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/cache"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
	"github.com/google/uuid"
)

// Orders is the shopper-side order container: creation with its gateway
// descriptor, payment capture, and the order history views.
type Orders struct {
	lifecycle
	client *api.Client
	cache  *cache.Cache

	orderID      string
	approvalURL  string
	gatewayOrder *models.GatewayOrder
	orderList    []models.Order
	orderDetails *models.Order
}

func NewOrders(client *api.Client, c *cache.Cache) *Orders {
	return &Orders{client: client, cache: c}
}

type OrdersSnapshot struct {
	OrderID      string
	ApprovalURL  string
	GatewayOrder *models.GatewayOrder
	OrderList    []models.Order
	OrderDetails *models.Order
	IsLoading    bool
	Err          string
}

func (s *Orders) Snapshot() OrdersSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Order, len(s.orderList))
	copy(list, s.orderList)
	var details *models.Order
	if s.orderDetails != nil {
		copied := *s.orderDetails
		details = &copied
	}
	var gw *models.GatewayOrder
	if s.gatewayOrder != nil {
		copied := *s.gatewayOrder
		gw = &copied
	}
	return OrdersSnapshot{
		OrderID:      s.orderID,
		ApprovalURL:  s.approvalURL,
		GatewayOrder: gw,
		OrderList:    list,
		OrderDetails: details,
		IsLoading:    s.isLoading,
		Err:          s.err,
	}
}

type CreateOrderInput struct {
	UserID        string             `json:"userId"`
	CartID        string             `json:"cartId,omitempty"`
	CartItems     []models.OrderItem `json:"cartItems"`
	AddressInfo   models.AddressInfo `json:"addressInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalAmount   float64            `json:"totalAmount"`

	// ClientRef dedupes resubmissions of the same checkout attempt.
	ClientRef string `json:"clientRef"`
}

type createOrderResponse struct {
	OrderID       string               `json:"orderId"`
	ApprovalURL   string               `json:"approvalURL"`
	RazorpayOrder *models.GatewayOrder `json:"razorpayOrder"`
}

// Create places the order. Every submission carries a fresh uuid client
// reference so a retry after a failed payment cannot double-place it.
func (s *Orders) Create(ctx context.Context, in CreateOrderInput) (*models.GatewayOrder, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id required: %w", ErrValidation)
	}
	if len(in.CartItems) == 0 {
		return nil, fmt.Errorf("cart items required: %w", ErrValidation)
	}
	if in.ClientRef == "" {
		in.ClientRef = uuid.NewString()
	}
	s.pending(true)

	var resp createOrderResponse
	if err := s.client.Do(ctx, http.MethodPost, "/api/shop/orders/create", in, &resp); err != nil {
		logging.FromContext(ctx).Error("create_order_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to create order"), func() {
			s.orderID = ""
			s.approvalURL = ""
			s.gatewayOrder = nil
		})
		return nil, err
	}

	if err := s.cache.Put(cache.KeyCurrentOrderID, resp.OrderID); err != nil {
		logging.FromContext(ctx).Warn("cache_put_failed", "key", cache.KeyCurrentOrderID, "error", err)
	}
	s.fulfilled(func() {
		s.orderID = resp.OrderID
		s.approvalURL = resp.ApprovalURL
		s.gatewayOrder = resp.RazorpayOrder
	})
	return resp.RazorpayOrder, nil
}

// Capture confirms an online payment after the gateway's side-channel
// callback delivered the payment and payer ids.
func (s *Orders) Capture(ctx context.Context, paymentID, payerID, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("order id required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"paymentId": paymentID, "payerId": payerID, "orderId": orderID}
	if err := s.client.Post(ctx, "/api/shop/orders/capture", body, nil); err != nil {
		logging.FromContext(ctx).Error("capture_payment_failed", "order_id", orderID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to capture payment"), nil)
		return err
	}

	if err := s.cache.Invalidate(cache.KeyCurrentOrderID); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "key", cache.KeyCurrentOrderID, "error", err)
	}
	s.fulfilled(nil)
	return nil
}

func (s *Orders) FetchByUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id required: %w", ErrValidation)
	}
	s.pending(false)

	var list []models.Order
	if err := s.client.Get(ctx, "/api/shop/orders/list/"+userID, &list); err != nil {
		logging.FromContext(ctx).Error("fetch_orders_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch orders"), func() {
			s.orderList = nil
		})
		return err
	}

	for i := range list {
		normalizeOrder(&list[i])
	}
	s.fulfilled(func() { s.orderList = list })
	return nil
}

func (s *Orders) FetchDetails(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("order id required: %w", ErrValidation)
	}
	s.pending(false)

	var order models.Order
	if err := s.client.Get(ctx, "/api/shop/orders/details/"+id, &order); err != nil {
		logging.FromContext(ctx).Error("fetch_order_details_failed", "order_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to get order details"), func() {
			s.orderDetails = nil
		})
		return err
	}

	normalizeOrder(&order)
	s.fulfilled(func() { s.orderDetails = &order })
	return nil
}

func (s *Orders) ResetDetails() {
	s.mu.Lock()
	s.orderDetails = nil
	s.err = ""
	s.mu.Unlock()
}

// CurrentOrderID is the order created by the in-flight checkout, surviving
// restarts through the cache collaborator.
func (s *Orders) CurrentOrderID() string {
	s.mu.Lock()
	id := s.orderID
	s.mu.Unlock()
	if id != "" {
		return id
	}
	if cached, ok, err := s.cache.Get(cache.KeyCurrentOrderID); err == nil && ok {
		return cached
	}
	return ""
}

// normalizeOrder applies the light read-model defaults: statuses fall back
// to pending, the payment method to online, and the customer name is derived
// user → address → "N/A".
func normalizeOrder(o *models.Order) {
	if o.OrderStatus == "" {
		o.OrderStatus = models.OrderStatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentStatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.PaymentMethodOnline
	}
	switch {
	case o.User != nil && o.User.UserName != "":
		o.CustomerName = o.User.UserName
	case o.AddressInfo.Name != "":
		o.CustomerName = o.AddressInfo.Name
	default:
		o.CustomerName = "N/A"
	}
}
