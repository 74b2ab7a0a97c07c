package registry

import (
	"context"
	"strings"

	"github.com/carlaabellana/ElCofre/internal/models"
)

// ShopListing pairs a shop with the price it lists a product at.
type ShopListing struct {
	Shop  models.Shop
	Price float64
}

// Dealer answers cross-registry questions: which products a shop
// actually sells, and which shops sell a given product. Catalogue
// entries reference products by name only, so a dangling entry simply
// resolves to nothing.
type Dealer struct {
	products *ProductRegistry
	shops    *ShopRegistry
}

// NewDealer wires the two registries together.
func NewDealer(products *ProductRegistry, shops *ShopRegistry) *Dealer {
	return &Dealer{products: products, shops: shops}
}

// ProductsAt resolves a shop's catalogue entries to registered products.
// Entries whose product no longer exists are skipped.
func (d *Dealer) ProductsAt(ctx context.Context, shopName string) ([]models.Product, error) {
	exists, err := d.shops.Exists(ctx, shopName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	catalogue, err := d.shops.CatalogueOf(ctx, shopName)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	for _, entry := range catalogue {
		product, ok, err := d.products.FindByName(ctx, entry.ProductName)
		if err != nil {
			return nil, err
		}
		if ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

// ShopsSelling returns every shop listing the product, with its listed
// price at that shop.
func (d *Dealer) ShopsSelling(ctx context.Context, productName string) ([]ShopListing, error) {
	shops, err := d.shops.List(ctx)
	if err != nil {
		return nil, err
	}

	var listings []ShopListing
	for i := range shops {
		for _, entry := range shops[i].Catalogue {
			if strings.EqualFold(entry.ProductName, productName) {
				price, _ := PriceAt(&shops[i], productName)
				listings = append(listings, ShopListing{Shop: shops[i], Price: price})
				break
			}
		}
	}
	return listings, nil
}
