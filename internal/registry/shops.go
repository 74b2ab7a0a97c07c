package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/store"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// EarningsPosting reports the outcome of posting checkout earnings to a
// shop, including whether this posting made a LOYALTY shop regular for
// the first time.
type EarningsPosting struct {
	ShopName      string
	Amount        float64
	TotalEarnings float64
	BecameRegular bool
}

// ShopRegistry holds shop identities, discount-policy parameters,
// catalogues and cumulative earnings, and owns the loyalty-threshold
// transition.
type ShopRegistry struct {
	dual   *store.Dual
	shops  []models.Shop
	logger *zap.Logger
}

// NewShopRegistry loads the local working set; the local shops file is
// created empty when absent.
func NewShopRegistry(dual *store.Dual) (*ShopRegistry, error) {
	shops, err := dual.Local.LoadShops()
	if err != nil {
		return nil, err
	}
	return &ShopRegistry{
		dual:   dual,
		shops:  shops,
		logger: util.GetLogger(),
	}, nil
}

// List returns the active shop collection for this call.
func (r *ShopRegistry) List(ctx context.Context) ([]models.Shop, error) {
	if r.dual.RemoteActive(ctx) {
		shops, err := r.dual.Remote.LoadShops(ctx)
		if err != nil {
			return nil, err
		}
		r.shops = shops
		return shops, nil
	}
	return r.shops, nil
}

// Exists reports whether a shop with the given name is registered,
// compared case-insensitively.
func (r *ShopRegistry) Exists(ctx context.Context, name string) (bool, error) {
	shops, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range shops {
		if strings.EqualFold(shops[i].Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// FindByName returns a copy of the shop with the given name, matched
// case-insensitively. Absence is an ok=false result, not an error.
func (r *ShopRegistry) FindByName(ctx context.Context, name string) (*models.Shop, bool, error) {
	shops, err := r.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range shops {
		if strings.EqualFold(shops[i].Name, name) {
			s := shops[i]
			return &s, true, nil
		}
	}
	return nil, false, nil
}

// Create registers a new shop with zero earnings and an empty catalogue.
// The model tag must belong to the closed set; loyaltyThreshold only
// applies to LOYALTY shops and sponsorBrand to SPONSORED ones.
func (r *ShopRegistry) Create(ctx context.Context, name, description string, since int, modelTag string, loyaltyThreshold float64, sponsorBrand string) error {
	exists, err := r.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("shop %q: %w", name, ErrDuplicateName)
	}

	model, err := models.ParseBusinessModel(modelTag)
	if err != nil {
		return err
	}

	shop := models.Shop{
		Name:          name,
		Description:   description,
		Since:         since,
		BusinessModel: model,
		Earnings:      0.0,
		Catalogue:     []models.CatalogueEntry{},
	}
	switch model {
	case models.ModelLoyalty:
		shop.LoyaltyThreshold = loyaltyThreshold
	case models.ModelSponsored:
		shop.SponsorBrand = sponsorBrand
	}

	if r.dual.RemoteActive(ctx) {
		if err := r.dual.Remote.SaveShop(ctx, shop); err != nil {
			return err
		}
		r.shops = append(r.shops, shop)
		r.dual.MirrorShops(r.shops)
		util.ShopsCreatedTotal.WithLabelValues(string(model)).Inc()
		return nil
	}

	r.shops = append(r.shops, shop)
	if err := r.dual.Local.SaveShops(r.shops); err != nil {
		return err
	}
	util.ShopsCreatedTotal.WithLabelValues(string(model)).Inc()
	return nil
}

// AddToCatalogue appends an entry to the shop's catalogue. The append is
// unconditional: an existing entry for the same product is not checked
// for, so duplicates can accumulate.
func (r *ShopRegistry) AddToCatalogue(ctx context.Context, shopName, productName string, price float64) error {
	err := r.mutate(ctx, shopName, func(shop *models.Shop) {
		shop.Catalogue = append(shop.Catalogue, models.CatalogueEntry{
			ProductName: productName,
			PriceAtShop: price,
		})
	})
	if err == nil {
		util.CatalogueUpdatesTotal.WithLabelValues("add").Inc()
	}
	return err
}

// RemoveFromCatalogue scans the whole catalogue, remembers the last entry
// matching the product name and removes exactly that one after the scan.
// With duplicate entries this keeps the earlier one alive; the behavior
// is load-bearing for compatibility and pinned by tests.
func (r *ShopRegistry) RemoveFromCatalogue(ctx context.Context, shopName, productName string) error {
	err := r.mutate(ctx, shopName, func(shop *models.Shop) {
		lastMatch := -1
		for i := range shop.Catalogue {
			if strings.EqualFold(shop.Catalogue[i].ProductName, productName) {
				lastMatch = i
			}
		}
		if lastMatch >= 0 {
			shop.Catalogue = append(shop.Catalogue[:lastMatch], shop.Catalogue[lastMatch+1:]...)
		}
	})
	if err == nil {
		util.CatalogueUpdatesTotal.WithLabelValues("remove").Inc()
	}
	return err
}

// CatalogueOf returns the shop's catalogue, or an empty slice for an
// unknown shop.
func (r *ShopRegistry) CatalogueOf(ctx context.Context, shopName string) ([]models.CatalogueEntry, error) {
	shop, ok, err := r.FindByName(ctx, shopName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.CatalogueEntry{}, nil
	}
	return shop.Catalogue, nil
}

// AddEarnings accumulates a checkout amount on the shop and persists it,
// then evaluates the loyalty transition. Earnings never decrease. The
// returned posting says whether this amount made the shop regular for
// the first time.
func (r *ShopRegistry) AddEarnings(ctx context.Context, shopName string, amount float64) (*EarningsPosting, error) {
	posting := &EarningsPosting{ShopName: shopName, Amount: amount}
	err := r.mutate(ctx, shopName, func(shop *models.Shop) {
		wasRegular := shop.IsRegular()
		shop.Earnings += amount
		posting.TotalEarnings = shop.Earnings
		posting.BecameRegular = !wasRegular && shop.IsRegular()
	})
	if err != nil {
		return nil, err
	}
	if posting.BecameRegular {
		util.RegularShopsTotal.Inc()
		r.logger.Info("Shop crossed its loyalty threshold",
			zap.String("shop", shopName),
			zap.Float64("earnings", posting.TotalEarnings))
	}
	return posting, nil
}

// mutate applies fn to the named shop on exactly one backend. In remote
// mode the shop is re-read fresh, updated in place at its current
// position and mirrored to the local file; in local mode the in-process
// list is mutated and saved whole.
func (r *ShopRegistry) mutate(ctx context.Context, shopName string, fn func(*models.Shop)) error {
	if r.dual.RemoteActive(ctx) {
		shops, err := r.dual.Remote.LoadShops(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range shops {
			if strings.EqualFold(shops[i].Name, shopName) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("shop %q: %w", shopName, ErrNotFound)
		}
		fn(&shops[idx])
		if err := r.dual.Remote.UpdateShop(ctx, shops[idx]); err != nil {
			return err
		}
		r.shops = shops
		r.dual.MirrorShops(shops)
		return nil
	}

	for i := range r.shops {
		if strings.EqualFold(r.shops[i].Name, shopName) {
			fn(&r.shops[i])
			return r.dual.Local.SaveShops(r.shops)
		}
	}
	return fmt.Errorf("shop %q: %w", shopName, ErrNotFound)
}

// PriceAt scans a shop's catalogue for the product without
// short-circuiting: the LAST matching entry's price wins. ok=false means
// no entry matched; the 0.0 price returned with it is the historical
// sentinel, kept for callers that ignore the flag.
func PriceAt(shop *models.Shop, productName string) (float64, bool) {
	price := 0.0
	found := false
	for _, entry := range shop.Catalogue {
		if strings.EqualFold(entry.ProductName, productName) {
			price = entry.PriceAtShop
			found = true
		}
	}
	return price, found
}
