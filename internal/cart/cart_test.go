package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/carlaabellana/ElCofre/internal/registry"
	"github.com/carlaabellana/ElCofre/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistries(t *testing.T) (*registry.ProductRegistry, *registry.ShopRegistry) {
	t.Helper()

	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.json")
	shopsPath := filepath.Join(dir, "shops.json")
	require.NoError(t, os.WriteFile(productsPath, []byte("[]"), 0o644))

	local, err := store.NewLocal(productsPath, shopsPath)
	require.NoError(t, err)
	dual := store.NewDual(local, nil)

	products, err := registry.NewProductRegistry(dual)
	require.NoError(t, err)
	shops, err := registry.NewShopRegistry(dual)
	require.NoError(t, err)
	return products, shops
}

func TestComputeTotalAppliesDiscountPolicy(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, "Keyboard", "Logi", 200.0, "GENERAL", 0))
	require.NoError(t, shops.Create(ctx, "TechHub", "gadgets", 2015, "SPONSORED", 0, "Logi"))
	require.NoError(t, shops.AddToCatalogue(ctx, "TechHub", "Keyboard", 121.0))

	engine := NewEngine(products, shops)
	engine.AddLine("Keyboard", "TechHub")

	priced, total, err := engine.ComputeTotal(ctx)
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.False(t, priced[0].Skipped)
	// 121 net of 21% tax is 100, then the sponsor-brand discount.
	assert.InDelta(t, 90.0, priced[0].Price, 0.0001)
	assert.InDelta(t, 90.0, total, 0.0001)
}

func TestComputeTotalSkipsDanglingLines(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, "Mug", "Acme", 20.0, "GENERAL", 0))
	require.NoError(t, shops.Create(ctx, "HomeGoods", "household", 2010, "MAX_PROFIT", 0, ""))
	require.NoError(t, shops.AddToCatalogue(ctx, "HomeGoods", "Mug", 12.1))

	engine := NewEngine(products, shops)
	engine.AddLine("Mug", "HomeGoods")
	engine.AddLine("Ghost", "HomeGoods")
	engine.AddLine("Mug", "NoSuchShop")

	priced, total, err := engine.ComputeTotal(ctx)
	require.NoError(t, err)
	require.Len(t, priced, 3)
	assert.False(t, priced[0].Skipped)
	assert.True(t, priced[1].Skipped)
	assert.True(t, priced[2].Skipped)
	assert.InDelta(t, 10.0, total, 0.0001)
}

func TestCheckoutUnconfirmedIsNoOp(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, "Mug", "Acme", 20.0, "GENERAL", 0))
	require.NoError(t, shops.Create(ctx, "HomeGoods", "household", 2010, "MAX_PROFIT", 0, ""))
	require.NoError(t, shops.AddToCatalogue(ctx, "HomeGoods", "Mug", 12.1))

	engine := NewEngine(products, shops)
	engine.AddLine("Mug", "HomeGoods")

	result, err := engine.Checkout(ctx, false)
	require.NoError(t, err)
	assert.False(t, result.Confirmed)
	assert.Empty(t, result.Postings)
	assert.Len(t, engine.Lines(), 1)

	shop, ok, err := shops.FindByName(ctx, "HomeGoods")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, shop.Earnings)
}

func TestCheckoutBatchesEarningsPerShop(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, "Mug", "Acme", 50.0, "GENERAL", 0))
	require.NoError(t, products.Create(ctx, "Plate", "Acme", 50.0, "GENERAL", 0))
	require.NoError(t, shops.Create(ctx, "HomeGoods", "household", 2010, "MAX_PROFIT", 0, ""))
	require.NoError(t, shops.Create(ctx, "Corner", "everything", 1998, "MAX_PROFIT", 0, ""))
	require.NoError(t, shops.AddToCatalogue(ctx, "HomeGoods", "Mug", 12.1))
	require.NoError(t, shops.AddToCatalogue(ctx, "HomeGoods", "Plate", 24.2))
	require.NoError(t, shops.AddToCatalogue(ctx, "Corner", "Mug", 12.1))

	engine := NewEngine(products, shops)
	engine.AddLine("Mug", "HomeGoods")
	engine.AddLine("Mug", "Corner")
	engine.AddLine("Plate", "HomeGoods")

	result, err := engine.Checkout(ctx, true)
	require.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.Empty(t, result.Failures)

	// One posting per shop, in first-seen order, covering the summed
	// amounts.
	require.Len(t, result.Postings, 2)
	assert.Equal(t, "HomeGoods", result.Postings[0].ShopName)
	assert.InDelta(t, 30.0, result.Postings[0].Amount, 0.0001)
	assert.Equal(t, "Corner", result.Postings[1].ShopName)
	assert.InDelta(t, 10.0, result.Postings[1].Amount, 0.0001)

	assert.Empty(t, engine.Lines())

	shop, ok, err := shops.FindByName(ctx, "HomeGoods")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 30.0, shop.Earnings, 0.0001)
}

func TestCheckoutReportsLoyaltyTransitionOnce(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, "Mug", "Acme", 50.0, "GENERAL", 0))
	require.NoError(t, products.Create(ctx, "Plate", "Acme", 50.0, "GENERAL", 0))
	require.NoError(t, shops.Create(ctx, "Faithful", "regulars", 2005, "LOYALTY", 15.0, ""))
	require.NoError(t, shops.AddToCatalogue(ctx, "Faithful", "Mug", 12.1))
	require.NoError(t, shops.AddToCatalogue(ctx, "Faithful", "Plate", 12.1))

	engine := NewEngine(products, shops)
	engine.AddLine("Mug", "Faithful")
	engine.AddLine("Plate", "Faithful")

	// Both lines land in one summed posting, so the threshold crossing
	// is reported exactly once even though either amount alone would
	// not have crossed it.
	result, err := engine.Checkout(ctx, true)
	require.NoError(t, err)
	require.Len(t, result.Postings, 1)
	assert.InDelta(t, 20.0, result.Postings[0].Amount, 0.0001)
	assert.True(t, result.Postings[0].BecameRegular)

	// A later checkout must not report the transition again.
	engine.AddLine("Mug", "Faithful")
	result, err = engine.Checkout(ctx, true)
	require.NoError(t, err)
	require.Len(t, result.Postings, 1)
	assert.False(t, result.Postings[0].BecameRegular)
}

func TestCheckoutEmptyCart(t *testing.T) {
	products, shops := newTestRegistries(t)
	ctx := context.Background()

	engine := NewEngine(products, shops)
	result, err := engine.Checkout(ctx, true)
	require.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.Empty(t, result.Postings)
	assert.Empty(t, result.Failures)
}

func TestClear(t *testing.T) {
	products, shops := newTestRegistries(t)

	engine := NewEngine(products, shops)
	assert.True(t, engine.Clear())

	engine.AddLine("Mug", "HomeGoods")
	assert.False(t, engine.Clear())
	assert.Empty(t, engine.Lines())
	assert.True(t, engine.IsEmpty())
}
