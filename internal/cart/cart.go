package cart

import (
	"context"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/pricing"
	"github.com/carlaabellana/ElCofre/internal/registry"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// LinePrice is the priced form of one cart line. Skipped lines reference
// a product or shop that no longer resolves; they contribute nothing to
// the total but are still reported.
type LinePrice struct {
	Line    models.CartLine
	Product *models.Product
	Shop    *models.Shop
	Price   float64
	Skipped bool
}

// PostingFailure records a per-shop earnings posting that failed during
// checkout. Failures are isolated: other shops' postings and the cart
// clear proceed regardless.
type PostingFailure struct {
	ShopName string
	Err      error
}

// CheckoutResult reports what a checkout did: the per-shop postings that
// succeeded (at most one per shop, covering that shop's summed amount)
// and the ones that failed.
type CheckoutResult struct {
	Confirmed bool
	Postings  []*registry.EarningsPosting
	Failures  []PostingFailure
}

// Engine aggregates (product, shop) selections across shops, prices them
// through the tax/discount composition and settles confirmed checkouts
// against the shop registry.
type Engine struct {
	products *registry.ProductRegistry
	shops    *registry.ShopRegistry
	lines    []models.CartLine
	logger   *zap.Logger
}

// NewEngine builds an empty cart over the two registries.
func NewEngine(products *registry.ProductRegistry, shops *registry.ShopRegistry) *Engine {
	return &Engine{
		products: products,
		shops:    shops,
		lines:    []models.CartLine{},
		logger:   util.GetLogger(),
	}
}

// AddLine appends a selection. The pair is not validated here; callers
// select from listings they have already resolved.
func (e *Engine) AddLine(productName, shopName string) {
	e.lines = append(e.lines, models.CartLine{ProductName: productName, ShopName: shopName})
	util.CartLinesAddedTotal.Inc()
}

// Lines returns the current selections in insertion order.
func (e *Engine) Lines() []models.CartLine {
	return e.lines
}

// IsEmpty reports whether the cart holds no lines.
func (e *Engine) IsEmpty() bool {
	return len(e.lines) == 0
}

// ComputeTotal prices every line and sums the grand total. Each line's
// price is the shop's discount output over its listed catalogue price;
// regular status changes messaging, never arithmetic, so the same
// computation applies either way. Dangling lines are skipped.
func (e *Engine) ComputeTotal(ctx context.Context) ([]LinePrice, float64, error) {
	ctx, span := util.StartSpan(ctx, "Cart.ComputeTotal")
	defer span.End()

	priced := make([]LinePrice, 0, len(e.lines))
	total := 0.0

	for _, line := range e.lines {
		lp, err := e.priceLine(ctx, line)
		if err != nil {
			return nil, 0, err
		}
		priced = append(priced, lp)
		if !lp.Skipped {
			total += lp.Price
		}
	}
	return priced, total, nil
}

func (e *Engine) priceLine(ctx context.Context, line models.CartLine) (LinePrice, error) {
	product, ok, err := e.products.FindByName(ctx, line.ProductName)
	if err != nil {
		return LinePrice{}, err
	}
	if !ok {
		return LinePrice{Line: line, Skipped: true}, nil
	}

	shop, ok, err := e.shops.FindByName(ctx, line.ShopName)
	if err != nil {
		return LinePrice{}, err
	}
	if !ok {
		return LinePrice{Line: line, Skipped: true}, nil
	}

	listed, _ := registry.PriceAt(shop, product.Name)
	final := pricing.FinalPrice(listed, shop, product)
	return LinePrice{Line: line, Product: product, Shop: shop, Price: final}, nil
}

// Checkout settles the cart. Unconfirmed checkouts change nothing.
// Confirmed ones recompute every line, batch the amounts per shop, post
// each shop's sum exactly once (so a loyalty transition is reported at
// most once per shop per checkout), and clear the cart unconditionally.
// A posting failure for one shop never rolls back or blocks the others.
func (e *Engine) Checkout(ctx context.Context, confirmed bool) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "Cart.Checkout")
	defer span.End()

	if !confirmed {
		return &CheckoutResult{Confirmed: false}, nil
	}

	perShop := map[string]float64{}
	var shopOrder []string

	for _, line := range e.lines {
		lp, err := e.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if lp.Skipped {
			continue
		}
		if _, seen := perShop[lp.Shop.Name]; !seen {
			shopOrder = append(shopOrder, lp.Shop.Name)
		}
		perShop[lp.Shop.Name] += lp.Price
	}

	result := &CheckoutResult{Confirmed: true}
	for _, shopName := range shopOrder {
		amount := perShop[shopName]
		posting, err := e.shops.AddEarnings(ctx, shopName, amount)
		if err != nil {
			e.logger.Error("Failed to post earnings",
				zap.String("shop", shopName),
				zap.Float64("amount", amount),
				zap.Error(err))
			util.EarningsPostFailedTotal.Inc()
			result.Failures = append(result.Failures, PostingFailure{ShopName: shopName, Err: err})
			continue
		}
		util.EarningsPostedTotal.Add(amount)
		if posting.BecameRegular {
			e.logger.Info("Shop reached regular status",
				zap.String("shop", shopName),
				zap.Float64("earnings", posting.TotalEarnings))
		}
		result.Postings = append(result.Postings, posting)
	}

	e.lines = e.lines[:0]
	util.CheckoutsTotal.Inc()
	return result, nil
}

// Clear empties the cart. Clearing an empty cart is a status, not an
// error.
func (e *Engine) Clear() (alreadyEmpty bool) {
	if len(e.lines) == 0 {
		return true
	}
	e.lines = e.lines[:0]
	return false
}
