package store

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/shopsync/internal/models"
)

// reviewBackend keeps reviews server-side so add-then-fetch round trips work.
func reviewBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := newFakeBackend(t)
	var store sync.Map // productID -> []models.Review
	seq := 0

	fb.POST("/api/shop/reviews/add", func(c echo.Context) error {
		var in models.Review
		if err := c.Bind(&in); err != nil {
			return err
		}
		seq++
		in.ID = "r" + string(rune('0'+seq))
		existing, _ := store.Load(in.ProductID)
		list, _ := existing.([]models.Review)
		store.Store(in.ProductID, append(list, in))
		return ok(c, in)
	})
	fb.GET("/api/shop/reviews/:productId", func(c echo.Context) error {
		existing, _ := store.Load(c.Param("productId"))
		list, _ := existing.([]models.Review)
		return ok(c, list)
	})
	return fb
}

func TestReviewsAddThenFetchRoundTrip(t *testing.T) {
	fb := reviewBackend(t)
	reviews := NewReviews(fb.client())

	in := AddReviewInput{
		ProductID:     "p1",
		UserID:        "u1",
		UserName:      "ann",
		ReviewMessage: "solid mug",
		ReviewValue:   5,
	}
	require.NoError(t, reviews.Add(context.Background(), in))
	require.NoError(t, reviews.Fetch(context.Background(), "p1"))

	snap := reviews.Snapshot()
	count := 0
	for _, r := range snap.Reviews {
		if r.UserID == "u1" && r.ReviewMessage == "solid mug" {
			count++
		}
	}
	assert.Equal(t, 1, count, "the new review appears exactly once after re-fetch")
}

func TestReviewsAddPrependsLocally(t *testing.T) {
	fb := reviewBackend(t)
	reviews := NewReviews(fb.client())

	require.NoError(t, reviews.Add(context.Background(), AddReviewInput{
		ProductID: "p1", UserID: "u1", ReviewValue: 4, ReviewMessage: "first",
	}))
	require.NoError(t, reviews.Add(context.Background(), AddReviewInput{
		ProductID: "p1", UserID: "u2", ReviewValue: 3, ReviewMessage: "second",
	}))

	snap := reviews.Snapshot()
	require.Len(t, snap.Reviews, 2)
	assert.Equal(t, "second", snap.Reviews[0].ReviewMessage, "newest first")
}

func TestReviewsRatingBounds(t *testing.T) {
	reviews := NewReviews(nil)

	for _, v := range []int{0, 6, -1} {
		err := reviews.Add(context.Background(), AddReviewInput{
			ProductID: "p1", UserID: "u1", ReviewValue: v,
		})
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestReviewsFetchRejectedEmptiesList(t *testing.T) {
	fb := newFakeBackend(t)
	fb.GET("/api/shop/reviews/:productId", func(c echo.Context) error {
		return fail(c, http.StatusInternalServerError, "db down")
	})

	reviews := NewReviews(fb.client())
	reviews.reviews = []models.Review{{ID: "r1"}}

	require.Error(t, reviews.Fetch(context.Background(), "p1"))
	snap := reviews.Snapshot()
	assert.Empty(t, snap.Reviews)
	assert.Equal(t, "db down", snap.Err)
}
