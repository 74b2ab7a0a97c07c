package models

import (
	"fmt"
	"strings"
)

// Category is a product's tax category. The set is closed: an
// unrecognized tag is rejected when a product is built or parsed,
// never at pricing time.
type Category string

const (
	CategoryGeneral      Category = "GENERAL"
	CategoryReduced      Category = "REDUCED"
	CategorySuperReduced Category = "SUPER_REDUCED"
)

// ParseCategory matches a tag case-insensitively against the closed set.
func ParseCategory(tag string) (Category, error) {
	switch strings.ToUpper(tag) {
	case string(CategoryGeneral):
		return CategoryGeneral, nil
	case string(CategoryReduced):
		return CategoryReduced, nil
	case string(CategorySuperReduced):
		return CategorySuperReduced, nil
	}
	return "", fmt.Errorf("invalid category: %q", tag)
}

// BusinessModel is a shop's discount model. Closed set, same rules as Category.
type BusinessModel string

const (
	ModelMaxProfit BusinessModel = "MAX_PROFIT"
	ModelLoyalty   BusinessModel = "LOYALTY"
	ModelSponsored BusinessModel = "SPONSORED"
)

// ParseBusinessModel matches a tag case-insensitively against the closed set.
func ParseBusinessModel(tag string) (BusinessModel, error) {
	switch strings.ToUpper(tag) {
	case string(ModelMaxProfit):
		return ModelMaxProfit, nil
	case string(ModelLoyalty):
		return ModelLoyalty, nil
	case string(ModelSponsored):
		return ModelSponsored, nil
	}
	return "", fmt.Errorf("invalid business model: %q", tag)
}

// Review is an immutable product review. Reviews keep insertion order.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Product is a catalog product. The JSON field names are the persisted
// record shape shared with the remote catalog store and the local files;
// AverageRating is only meaningful for REDUCED products.
type Product struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	MRP           float64  `json:"mrp"`
	Category      Category `json:"category"`
	AverageRating float64  `json:"averageRating,omitempty"`
	Reviews       []Review `json:"reviews"`
}

// AddReview appends a review, keeping insertion order.
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
}

// CatalogueEntry is a shop-local listing: a weak, name-based reference to
// a product together with the price this shop sells it at. The price may
// differ from the product's MRP, and the referenced product may no longer
// exist.
type CatalogueEntry struct {
	ProductName string  `json:"productName"`
	PriceAtShop float64 `json:"priceAtShop"`
}

// Shop is a marketplace shop. LoyaltyThreshold is only meaningful for
// LOYALTY shops and SponsorBrand for SPONSORED ones.
type Shop struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Since            int              `json:"since"`
	BusinessModel    BusinessModel    `json:"businessModel"`
	Earnings         float64          `json:"earnings"`
	LoyaltyThreshold float64          `json:"loyaltyThreshold,omitempty"`
	SponsorBrand     string           `json:"sponsorBrand,omitempty"`
	Catalogue        []CatalogueEntry `json:"catalogue"`
}

// IsRegular reports whether this shop's customers have reached regular
// status. Only LOYALTY shops ever become regular; earnings are monotonic,
// so once true it stays true.
func (s *Shop) IsRegular() bool {
	return s.BusinessModel == ModelLoyalty && s.Earnings >= s.LoyaltyThreshold
}

// CartLine is a transient (product, shop) selection. No quantity: each
// add appends one line.
type CartLine struct {
	ProductName string `json:"product_name"`
	ShopName    string `json:"shop_name"`
}
