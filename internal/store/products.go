package store

import (
	"context"
	"fmt"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// Products holds the shopper catalog view: the filtered listing plus the
// details of the currently opened product.
type Products struct {
	lifecycle
	client *api.Client

	productList    []models.Product
	productDetails *models.Product
}

func NewProducts(client *api.Client) *Products {
	return &Products{client: client}
}

type ProductsSnapshot struct {
	ProductList    []models.Product
	ProductDetails *models.Product
	IsLoading      bool
	Err            string
}

func (s *Products) Snapshot() ProductsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Product, len(s.productList))
	copy(list, s.productList)
	var details *models.Product
	if s.productDetails != nil {
		copied := *s.productDetails
		details = &copied
	}
	return ProductsSnapshot{ProductList: list, ProductDetails: details, IsLoading: s.isLoading, Err: s.err}
}

// FetchFiltered loads the shopper listing. filters map directly to query
// params (category, brand, ...), sortBy to the sort key.
func (s *Products) FetchFiltered(ctx context.Context, filters map[string]string, sortBy string) error {
	s.pending(false)

	var list []models.Product
	if err := s.client.Get(ctx, "/api/shop/products/get"+api.Query(filters, sortBy), &list); err != nil {
		logging.FromContext(ctx).Error("fetch_products_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch products"), func() {
			s.productList = nil
		})
		return err
	}

	s.fulfilled(func() { s.productList = list })
	return nil
}

func (s *Products) FetchDetails(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	s.pending(false)

	var product models.Product
	if err := s.client.Get(ctx, "/api/shop/products/get/"+id, &product); err != nil {
		logging.FromContext(ctx).Error("fetch_product_details_failed", "product_id", id, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch product details"), func() {
			s.productDetails = nil
		})
		return err
	}

	s.fulfilled(func() { s.productDetails = &product })
	return nil
}

// ResetDetails drops the opened product, e.g. when the details view closes.
func (s *Products) ResetDetails() {
	s.mu.Lock()
	s.productDetails = nil
	s.mu.Unlock()
}

// StockFor reports the known total stock of a product from the current
// listing. Used by the cart guards before mutating quantities.
func (s *Products) StockFor(productID string) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.productList {
		if p.ID == productID {
			return p.TotalStock, true
		}
	}
	if s.productDetails != nil && s.productDetails.ID == productID {
		return s.productDetails.TotalStock, true
	}
	return 0, false
}
