package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// Common holds storefront-wide read models: categories and the feature
// banner images.
type Common struct {
	lifecycle
	client *api.Client

	categoryList     []models.Category
	featureImageList []models.FeatureImage
}

func NewCommon(client *api.Client) *Common {
	return &Common{client: client}
}

type CommonSnapshot struct {
	CategoryList     []models.Category
	FeatureImageList []models.FeatureImage
	IsLoading        bool
	Err              string
}

func (s *Common) Snapshot() CommonSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := make([]models.Category, len(s.categoryList))
	copy(cats, s.categoryList)
	imgs := make([]models.FeatureImage, len(s.featureImageList))
	copy(imgs, s.featureImageList)
	return CommonSnapshot{CategoryList: cats, FeatureImageList: imgs, IsLoading: s.isLoading, Err: s.err}
}

func (s *Common) FetchCategories(ctx context.Context) error {
	s.pending(true)

	var list []models.Category
	if err := s.client.Get(ctx, "/api/common/categories", &list); err != nil {
		logging.FromContext(ctx).Error("fetch_categories_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch categories"), func() {
			s.categoryList = nil
		})
		return err
	}

	s.fulfilled(func() { s.categoryList = list })
	return nil
}

func (s *Common) AddCategory(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("category name required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"name": name}
	if err := s.client.Do(ctx, http.MethodPost, "/api/common/categories/add", body, nil); err != nil {
		logging.FromContext(ctx).Error("add_category_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to add category"), nil)
		return err
	}

	s.fulfilled(nil)
	return nil
}

func (s *Common) FetchFeatureImages(ctx context.Context) error {
	s.pending(true)

	var list []models.FeatureImage
	if err := s.client.Get(ctx, "/api/common/feature/get", &list); err != nil {
		logging.FromContext(ctx).Error("fetch_feature_images_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch feature images"), func() {
			s.featureImageList = nil
		})
		return err
	}

	s.fulfilled(func() { s.featureImageList = list })
	return nil
}
