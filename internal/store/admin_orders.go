package store

import (
	"context"
	"fmt"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// AdminOrders is the back-office order list with the status-update calls.
type AdminOrders struct {
	lifecycle
	client *api.Client

	orderList    []models.Order
	orderDetails *models.Order
}

func NewAdminOrders(client *api.Client) *AdminOrders {
	return &AdminOrders{client: client}
}

type AdminOrdersSnapshot struct {
	OrderList    []models.Order
	OrderDetails *models.Order
	IsLoading    bool
	Err          string
}

func (s *AdminOrders) Snapshot() AdminOrdersSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Order, len(s.orderList))
	copy(list, s.orderList)
	var details *models.Order
	if s.orderDetails != nil {
		copied := *s.orderDetails
		details = &copied
	}
	return AdminOrdersSnapshot{OrderList: list, OrderDetails: details, IsLoading: s.isLoading, Err: s.err}
}

func (s *AdminOrders) FetchAll(ctx context.Context) error {
	s.pending(true)

	var list []models.Order
	if err := s.client.Get(ctx, "/api/admin/orders/get", &list); err != nil {
		logging.FromContext(ctx).Error("admin_fetch_orders_failed", "error", err)
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

func (s *AdminOrders) FetchDetails(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("order id required: %w", ErrValidation)
	}
	s.pending(true)

	var order models.Order
	if err := s.client.Get(ctx, "/api/admin/orders/details/"+id, &order); err != nil {
		logging.FromContext(ctx).Error("admin_fetch_order_details_failed", "order_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch order details"), func() {
			s.orderDetails = nil
		})
		return err
	}

	normalizeOrder(&order)
	s.fulfilled(func() { s.orderDetails = &order })
	return nil
}

// UpdateStatus moves an order along pending → processing → shipped →
// delivered (or to cancelled) and patches the list entry in place.
func (s *AdminOrders) UpdateStatus(ctx context.Context, id, orderStatus, paymentStatus string) error {
	if id == "" {
		return fmt.Errorf("order id required: %w", ErrValidation)
	}
	if !validOrderStatus(orderStatus) {
		return fmt.Errorf("unknown order status %q: %w", orderStatus, ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"orderStatus": orderStatus}
	if paymentStatus != "" {
		body["paymentStatus"] = paymentStatus
	}
	var updated models.Order
	if err := s.client.Put(ctx, "/api/admin/orders/update/"+id, body, &updated); err != nil {
		logging.FromContext(ctx).Error("admin_update_order_failed", "order_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update order status"), nil)
		return err
	}

	normalizeOrder(&updated)
	s.fulfilled(func() { s.patch(updated) })
	return nil
}

func (s *AdminOrders) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	if id == "" {
		return fmt.Errorf("order id required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"paymentStatus": paymentStatus}
	var updated models.Order
	if err := s.client.Put(ctx, "/api/admin/orders/payment-status/"+id, body, &updated); err != nil {
		logging.FromContext(ctx).Error("admin_update_payment_failed", "order_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update payment status"), nil)
		return err
	}

	normalizeOrder(&updated)
	s.fulfilled(func() { s.patch(updated) })
	return nil
}

func (s *AdminOrders) ResetDetails() {
	s.mu.Lock()
	s.orderDetails = nil
	s.err = ""
	s.mu.Unlock()
}

func (s *AdminOrders) patch(updated models.Order) {
	for i, o := range s.orderList {
		if o.ID == updated.ID {
			s.orderList[i] = updated
			break
		}
	}
	if s.orderDetails != nil && s.orderDetails.ID == updated.ID {
		s.orderDetails = &updated
	}
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return true
	}
	return false
}
