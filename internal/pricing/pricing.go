package pricing

import (
	"github.com/carlaabellana/ElCofre/internal/models"
)

// Tax rates per category, expressed as percentages of the sell price.
const (
	GeneralTaxRate      = 21.0
	ReducedTaxRate      = 10.0
	ReducedTaxRateLow   = 5.0
	SuperReducedTaxRate = 4.0
)

// MinimumAverageRating is the average rating above which a REDUCED
// product qualifies for the lower reduced rate.
const MinimumAverageRating = 3.5

// SuperReducedThreshold is the listed price at or above which a
// SUPER_REDUCED product carries no tax adjustment at all.
const SuperReducedThreshold = 100.0

// SponsoredDiscountFactor is applied on top of the sell price when a
// sponsored shop sells a product of its sponsoring brand.
const SponsoredDiscountFactor = 0.9

// SellPrice converts a listed catalogue price into the sell price for the
// given product. Pure: no state is read or written besides the arguments.
func SellPrice(listedPrice float64, p *models.Product) float64 {
	switch p.Category {
	case models.CategoryGeneral:
		return listedPrice / (1 + GeneralTaxRate/100)
	case models.CategoryReduced:
		if p.AverageRating > MinimumAverageRating {
			return listedPrice / (1 + ReducedTaxRateLow/100)
		}
		return listedPrice / (1 + ReducedTaxRate/100)
	case models.CategorySuperReduced:
		if listedPrice >= SuperReducedThreshold {
			return listedPrice
		}
		return listedPrice / (1 + SuperReducedTaxRate/100)
	}
	// Unreachable for products built through models.ParseCategory.
	return listedPrice
}

// FinalPrice composes the shop's discount model with the tax adjustment:
// the input is the listed catalogue price and the discount is applied to
// the sell price, not after it. MAX_PROFIT and LOYALTY shops sell at the
// sell price; SPONSORED shops take 10% off products of their sponsoring
// brand.
func FinalPrice(listedPrice float64, shop *models.Shop, p *models.Product) float64 {
	switch shop.BusinessModel {
	case models.ModelMaxProfit:
		return SellPrice(listedPrice, p)
	case models.ModelLoyalty:
		return SellPrice(listedPrice, p)
	case models.ModelSponsored:
		if p.Brand == shop.SponsorBrand {
			return SellPrice(listedPrice, p) * SponsoredDiscountFactor
		}
		return SellPrice(listedPrice, p)
	}
	return SellPrice(listedPrice, p)
}
