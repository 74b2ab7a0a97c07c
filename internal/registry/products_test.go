package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalDual(t *testing.T) *store.Dual {
	t.Helper()

	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.json")
	shopsPath := filepath.Join(dir, "shops.json")
	require.NoError(t, os.WriteFile(productsPath, []byte("[]"), 0o644))

	local, err := store.NewLocal(productsPath, shopsPath)
	require.NoError(t, err)
	return store.NewDual(local, nil)
}

func TestProductCreateRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "Olive Oil", "Borges", 8.50, "GENERAL", 0))

	err = r.Create(ctx, "OLIVE OIL", "Carbonell", 9.0, "GENERAL", 0)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestProductCreateValidatesCategoryAndPrice(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, r.Create(ctx, "Mystery", "Acme", 5.0, "LUXURY", 0))
	assert.Error(t, r.Create(ctx, "Freebie", "Acme", -1.0, "GENERAL", 0))
}

func TestProductCreateKeepsRatingOnlyForReduced(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "Bread", "Panrico", 2.0, "REDUCED", 4.2))
	require.NoError(t, r.Create(ctx, "Soap", "Lagarto", 3.0, "general", 4.2))

	bread, ok, err := r.FindByName(ctx, "bread")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.CategoryReduced, bread.Category)
	assert.InDelta(t, 4.2, bread.AverageRating, 0.0001)

	soap, ok, err := r.FindByName(ctx, "Soap")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.CategoryGeneral, soap.Category)
	assert.Zero(t, soap.AverageRating)
}

func TestProductSearchMatchesNameAndBrand(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "Olive Oil", "Borges", 8.50, "GENERAL", 0))
	require.NoError(t, r.Create(ctx, "Sunflower Oil", "Koipe", 3.20, "GENERAL", 0))
	require.NoError(t, r.Create(ctx, "Vinegar", "Borges", 2.10, "GENERAL", 0))

	byName, err := r.Search(ctx, "oil")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byBrand, err := r.Search(ctx, "BORGES")
	require.NoError(t, err)
	assert.Len(t, byBrand, 2)

	none, err := r.Search(ctx, "chocolate")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProductRemoveByPosition(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "First", "Acme", 1.0, "GENERAL", 0))
	require.NoError(t, r.Create(ctx, "Second", "Acme", 2.0, "GENERAL", 0))
	require.NoError(t, r.Create(ctx, "Third", "Acme", 3.0, "GENERAL", 0))

	require.NoError(t, r.Remove(ctx, 1))

	products, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "First", products[0].Name)
	assert.Equal(t, "Third", products[1].Name)

	err = r.Remove(ctx, 5)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddReviewValidatesRating(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "Bread", "Panrico", 2.0, "GENERAL", 0))

	assert.ErrorIs(t, r.AddReview(ctx, "Bread", 0, "awful"), ErrInvalidRating)
	assert.ErrorIs(t, r.AddReview(ctx, "Bread", 6, "stellar"), ErrInvalidRating)
	assert.ErrorIs(t, r.AddReview(ctx, "Ghost", 3, "fine"), ErrNotFound)

	require.NoError(t, r.AddReview(ctx, "bread", 4, "good crumb"))
	require.NoError(t, r.AddReview(ctx, "Bread", 5, ""))

	reviews, err := r.Reviews(ctx, "Bread")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Equal(t, "good crumb", reviews[0].Comment)
}

func TestPriceWithinLimit(t *testing.T) {
	r, err := NewProductRegistry(newLocalDual(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "Cheap", "Acme", 5.0, "GENERAL", 0))
	require.NoError(t, r.Create(ctx, "Dear", "Acme", 50.0, "GENERAL", 0))

	// Any product's MRP at or above the candidate is enough, regardless
	// of which product is being listed.
	ok, err := r.PriceWithinLimit(ctx, 50.0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.PriceWithinLimit(ctx, 50.01)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAverageRating(t *testing.T) {
	assert.Zero(t, AverageRating(nil))
	assert.InDelta(t, 4.33, AverageRating([]models.Review{
		{Rating: 5}, {Rating: 4}, {Rating: 4},
	}), 0.0001)
}
