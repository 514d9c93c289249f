package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// Reviews holds the review list of the currently opened product.
type Reviews struct {
	lifecycle
	client *api.Client

	reviews []models.Review
}

func NewReviews(client *api.Client) *Reviews {
	return &Reviews{client: client}
}

type ReviewsSnapshot struct {
	Reviews   []models.Review
	IsLoading bool
	Err       string
}

func (s *Reviews) Snapshot() ReviewsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Review, len(s.reviews))
	copy(list, s.reviews)
	return ReviewsSnapshot{Reviews: list, IsLoading: s.isLoading, Err: s.err}
}

type AddReviewInput struct {
	ProductID     string `json:"productId"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	ReviewMessage string `json:"reviewMessage"`
	ReviewValue   int    `json:"reviewValue"`
}

// Add posts a review and prepends the created record locally. Rating must be
// 1..5.
func (s *Reviews) Add(ctx context.Context, in AddReviewInput) error {
	if in.ProductID == "" || in.UserID == "" {
		return fmt.Errorf("product and user ids required: %w", ErrValidation)
	}
	if in.ReviewValue < 1 || in.ReviewValue > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	s.pending(true)

	var created models.Review
	if err := s.client.Do(ctx, http.MethodPost, "/api/shop/reviews/add", in, &created); err != nil {
		logging.FromContext(ctx).Error("add_review_failed", "product_id", in.ProductID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to add review"), nil)
		return err
	}

	s.fulfilled(func() {
		if created.ID != "" {
			s.reviews = append([]models.Review{created}, s.reviews...)
		}
	})
	return nil
}

func (s *Reviews) Fetch(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	s.pending(true)

	var list []models.Review
	if err := s.client.Get(ctx, "/api/shop/reviews/"+productID, &list); err != nil {
		logging.FromContext(ctx).Error("fetch_reviews_failed", "product_id", productID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch reviews"), func() {
			s.reviews = nil
		})
		return err
	}

	s.fulfilled(func() { s.reviews = list })
	return nil
}

// ClearReviews resets the container when the product view closes.
func (s *Reviews) ClearReviews() {
	s.mu.Lock()
	s.reviews = nil
	s.err = ""
	s.mu.Unlock()
}
