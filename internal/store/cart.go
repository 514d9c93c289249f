package store

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// Cart mirrors the shopper's server-side cart. Quantity rules are enforced
// before any network call: never below 1, never above the product's stock.
type Cart struct {
	lifecycle
	client *api.Client

	cart models.Cart
}

func NewCart(client *api.Client) *Cart {
	return &Cart{client: client}
}

type CartSnapshot struct {
	Cart      models.Cart
	IsLoading bool
	Err       string
}

func (s *Cart) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	c := s.cart
	c.Items = items
	return CartSnapshot{Cart: c, IsLoading: s.isLoading, Err: s.err}
}

// TotalAmount is the checkout total: effective price times quantity summed
// over the cart, rounded to 2 decimals.
func (s *Cart) TotalAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, item := range s.cart.Items {
		sum += item.EffectivePrice() * float64(item.Quantity)
	}
	return round2(sum)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Cart) Fetch(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id required: %w", ErrValidation)
	}
	s.pending(false)

	var cart models.Cart
	if err := s.client.Get(ctx, "/api/shop/cart/get/"+userID, &cart); err != nil {
		logging.FromContext(ctx).Error("fetch_cart_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch cart items"), nil)
		return err
	}

	s.fulfilled(func() { s.cart = cart })
	return nil
}

// Add puts quantity units of the product in the cart. stock is the product's
// TotalStock; the request is blocked locally when the cart already holds too
// many.
func (s *Cart) Add(ctx context.Context, userID, productID string, quantity uint, stock uint) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("user and product ids required: %w", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}
	if err := s.checkStock(productID, quantity, stock); err != nil {
		return err
	}
	s.pending(false)

	body := map[string]any{"userId": userID, "productId": productID, "quantity": quantity}
	var cart models.Cart
	if err := s.client.Do(ctx, http.MethodPost, "/api/shop/cart/add", body, &cart); err != nil {
		logging.FromContext(ctx).Error("add_to_cart_failed", "product_id", productID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to add to cart"), nil)
		return err
	}

	s.fulfilled(func() { s.cart = cart })
	return nil
}

// UpdateQuantity sets the absolute quantity of a cart line. Requests that
// would drop below 1 or exceed the given stock are rejected before any call.
func (s *Cart) UpdateQuantity(ctx context.Context, userID, productID string, quantity uint, stock uint) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("user and product ids required: %w", ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if quantity > stock {
		return fmt.Errorf("only %d quantity available for this item: %w", stock, ErrValidation)
	}
	s.pending(false)

	body := map[string]any{"userId": userID, "productId": productID, "quantity": quantity}
	var cart models.Cart
	if err := s.client.Put(ctx, "/api/shop/cart/update-cart", body, &cart); err != nil {
		logging.FromContext(ctx).Error("update_cart_failed", "product_id", productID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update cart quantity"), nil)
		return err
	}

	s.fulfilled(func() { s.cart = cart })
	return nil
}

func (s *Cart) DeleteItem(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("user and product ids required: %w", ErrValidation)
	}
	s.pending(false)

	var cart models.Cart
	if err := s.client.Delete(ctx, "/api/shop/cart/"+userID+"/"+productID, &cart); err != nil {
		logging.FromContext(ctx).Error("delete_cart_item_failed", "product_id", productID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to delete cart item"), nil)
		return err
	}

	s.fulfilled(func() { s.cart = cart })
	return nil
}

// Clear drops the local copy only. Used on logout and after a completed
// checkout; the server cart is cleared by order placement.
func (s *Cart) Clear() {
	s.mu.Lock()
	s.cart = models.Cart{}
	s.err = ""
	s.mu.Unlock()
}

// checkStock applies the add-to-cart guard: existing cart quantity plus the
// increment may not exceed the product's total stock.
func (s *Cart) checkStock(productID string, add uint, stock uint) error {
	s.mu.Lock()
	var have uint
	for _, item := range s.cart.Items {
		if item.ProductID == productID {
			have = item.Quantity
			break
		}
	}
	s.mu.Unlock()

	if stock > 0 && have+add > stock {
		return fmt.Errorf("only %d quantity available for this item: %w", stock, ErrValidation)
	}
	return nil
}
