package registry

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/store"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// ProductRegistry holds product identities, tax-policy parameters and
// accumulated reviews. Reads and writes go exclusively through one store
// backend per call, decided by the dual store's probe.
type ProductRegistry struct {
	dual     *store.Dual
	products []models.Product
	logger   *zap.Logger
}

// NewProductRegistry loads the local working set. A missing local
// products file has already aborted startup by the time this runs.
func NewProductRegistry(dual *store.Dual) (*ProductRegistry, error) {
	products, err := dual.Local.LoadProducts()
	if err != nil {
		return nil, err
	}
	return &ProductRegistry{
		dual:     dual,
		products: products,
		logger:   util.GetLogger(),
	}, nil
}

// List returns the active product collection for this call: the remote
// store's when it is reachable, the in-process list otherwise.
func (r *ProductRegistry) List(ctx context.Context) ([]models.Product, error) {
	if r.dual.RemoteActive(ctx) {
		return r.dual.Remote.LoadProducts(ctx)
	}
	return r.products, nil
}

// Exists reports whether a product with the given name is registered,
// compared case-insensitively.
func (r *ProductRegistry) Exists(ctx context.Context, name string) (bool, error) {
	products, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range products {
		if strings.EqualFold(products[i].Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// FindByName returns the product with the given name, matched
// case-insensitively. Absence is an ok=false result, not an error.
func (r *ProductRegistry) FindByName(ctx context.Context, name string) (*models.Product, bool, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range products {
		if strings.EqualFold(products[i].Name, name) {
			p := products[i]
			return &p, true, nil
		}
	}
	return nil, false, nil
}

// Create registers a new product. The name must be unique regardless of
// case and the category tag must belong to the closed set; averageRating
// only applies to REDUCED products.
func (r *ProductRegistry) Create(ctx context.Context, name, brand string, mrp float64, categoryTag string, averageRating float64) error {
	exists, err := r.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("product %q: %w", name, ErrDuplicateName)
	}
	if mrp < 0 {
		return fmt.Errorf("product %q: mrp must not be negative", name)
	}

	category, err := models.ParseCategory(categoryTag)
	if err != nil {
		return err
	}

	product := models.Product{
		Name:     name,
		Brand:    brand,
		MRP:      mrp,
		Category: category,
		Reviews:  []models.Review{},
	}
	if category == models.CategoryReduced {
		product.AverageRating = averageRating
	}

	if r.dual.RemoteActive(ctx) {
		if err := r.dual.Remote.AppendProduct(ctx, product); err != nil {
			return err
		}
		r.products = append(r.products, product)
		r.dual.MirrorProducts(r.products)
		util.ProductsCreatedTotal.Inc()
		return nil
	}

	r.products = append(r.products, product)
	if err := r.dual.Local.SaveProducts(r.products); err != nil {
		return err
	}
	util.ProductsCreatedTotal.Inc()
	return nil
}

// Remove withdraws the product at the given zero-based position from the
// active listing. Shop catalogue entries referencing it are left dangling
// on purpose; they are pruned independently through catalogue edits.
func (r *ProductRegistry) Remove(ctx context.Context, position int) error {
	if r.dual.RemoteActive(ctx) {
		if err := r.dual.Remote.DeleteProduct(ctx, position); err != nil {
			return err
		}
		if position >= 0 && position < len(r.products) {
			r.products = append(r.products[:position], r.products[position+1:]...)
		}
		r.dual.MirrorProducts(r.products)
		util.ProductsRemovedTotal.Inc()
		return nil
	}

	if position < 0 || position >= len(r.products) {
		return fmt.Errorf("product position %d: %w", position, ErrNotFound)
	}
	r.products = append(r.products[:position], r.products[position+1:]...)
	if err := r.dual.Local.SaveProducts(r.products); err != nil {
		return err
	}
	util.ProductsRemovedTotal.Inc()
	return nil
}

// Search returns the products whose name or brand contains the query,
// compared case-insensitively.
func (r *ProductRegistry) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)

	var results []models.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Brand), query) {
			results = append(results, p)
		}
	}
	return results, nil
}

// AddReview appends an immutable review to the named product. The rating
// must be between 1 and 5.
func (r *ProductRegistry) AddReview(ctx context.Context, productName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	review := models.Review{Rating: rating, Comment: comment}

	if r.dual.RemoteActive(ctx) {
		product, ok, err := r.FindByName(ctx, productName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("product %q: %w", productName, ErrNotFound)
		}
		product.AddReview(review)
		if err := r.dual.Remote.UpdateProduct(ctx, *product); err != nil {
			return err
		}
		r.syncLocalCopy(*product)
		r.dual.MirrorProducts(r.products)
		util.ReviewsAddedTotal.Inc()
		return nil
	}

	for i := range r.products {
		if strings.EqualFold(r.products[i].Name, productName) {
			r.products[i].AddReview(review)
			if err := r.dual.Local.SaveProducts(r.products); err != nil {
				return err
			}
			util.ReviewsAddedTotal.Inc()
			return nil
		}
	}
	return fmt.Errorf("product %q: %w", productName, ErrNotFound)
}

// Reviews returns the named product's reviews in insertion order.
func (r *ProductRegistry) Reviews(ctx context.Context, productName string) ([]models.Review, error) {
	product, ok, err := r.FindByName(ctx, productName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %q: %w", productName, ErrNotFound)
	}
	return product.Reviews, nil
}

// PriceWithinLimit accepts a proposed catalogue price only if some
// product in the registry has an MRP at or above it. The check is global
// across all products, not scoped to the product being listed.
func (r *ProductRegistry) PriceWithinLimit(ctx context.Context, candidatePrice float64) (bool, error) {
	products, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range products {
		if candidatePrice <= products[i].MRP {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRegistry) syncLocalCopy(p models.Product) {
	for i := range r.products {
		if strings.EqualFold(r.products[i].Name, p.Name) {
			r.products[i] = p
			return
		}
	}
	r.products = append(r.products, p)
}

// AverageRating averages a review list, rounded to two decimals. An
// empty list averages to zero.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0.0
	}
	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return math.Round(avg*100) / 100
}
