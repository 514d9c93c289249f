package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// AdminProducts is the back-office catalog with full CRUD. Edit and delete
// notifications go to directly registered callbacks instead of a broadcast
// event bus, so consumers get the product they asked about and nothing else.
type AdminProducts struct {
	lifecycle
	client *api.Client

	productList []models.Product

	onEdit   func(models.Product)
	onDelete func(productID string)
}

func NewAdminProducts(client *api.Client) *AdminProducts {
	return &AdminProducts{client: client}
}

type AdminProductsSnapshot struct {
	ProductList []models.Product
	IsLoading   bool
	Err         string
}

func (s *AdminProducts) Snapshot() AdminProductsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Product, len(s.productList))
	copy(list, s.productList)
	return AdminProductsSnapshot{ProductList: list, IsLoading: s.isLoading, Err: s.err}
}

// OnEdit registers the consumer notified when a product is updated.
func (s *AdminProducts) OnEdit(fn func(models.Product)) {
	s.mu.Lock()
	s.onEdit = fn
	s.mu.Unlock()
}

// OnDelete registers the consumer notified when a product is removed.
func (s *AdminProducts) OnDelete(fn func(productID string)) {
	s.mu.Lock()
	s.onDelete = fn
	s.mu.Unlock()
}

func (s *AdminProducts) FetchAll(ctx context.Context) error {
	s.pending(true)

	var list []models.Product
	if err := s.client.Get(ctx, "/api/admin/products", &list); err != nil {
		logging.FromContext(ctx).Error("admin_fetch_products_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch products"), func() {
			s.productList = nil
		})
		return err
	}

	s.fulfilled(func() { s.productList = list })
	return nil
}

type ProductInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"salePrice"`
	TotalStock  uint    `json:"totalStock"`
}

func (in ProductInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("title required: %w", ErrValidation)
	}
	if in.Price < 0 || in.SalePrice < 0 {
		return fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	return nil
}

func (s *AdminProducts) Create(ctx context.Context, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	s.pending(true)

	var created models.Product
	if err := s.client.Do(ctx, http.MethodPost, "/api/admin/products", in, &created); err != nil {
		logging.FromContext(ctx).Error("admin_create_product_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to create product"), nil)
		return err
	}

	s.fulfilled(func() {
		s.productList = append(s.productList, created)
	})
	return nil
}

func (s *AdminProducts) Update(ctx context.Context, id string, in ProductInput) error {
	if id == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if err := in.validate(); err != nil {
		return err
	}
	s.pending(true)

	var updated models.Product
	if err := s.client.Put(ctx, "/api/admin/products/"+id, in, &updated); err != nil {
		logging.FromContext(ctx).Error("admin_update_product_failed", "product_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update product"), nil)
		return err
	}

	var notify func(models.Product)
	s.fulfilled(func() {
		for i, p := range s.productList {
			if p.ID == updated.ID {
				s.productList[i] = updated
				break
			}
		}
		notify = s.onEdit
	})
	if notify != nil {
		notify(updated)
	}
	return nil
}

func (s *AdminProducts) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	s.pending(true)

	if err := s.client.Delete(ctx, "/api/admin/products/"+id, nil); err != nil {
		logging.FromContext(ctx).Error("admin_delete_product_failed", "product_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to delete product"), nil)
		return err
	}

	var notify func(string)
	s.fulfilled(func() {
		kept := s.productList[:0]
		for _, p := range s.productList {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.productList = kept
		notify = s.onDelete
	})
	if notify != nil {
		notify(id)
	}
	return nil
}
