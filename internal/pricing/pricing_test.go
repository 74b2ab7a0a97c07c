package pricing

import (
	"testing"

	"github.com/carlaabellana/ElCofre/internal/models"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func TestSellPriceGeneral(t *testing.T) {
	p := &models.Product{Name: "Olive Oil", Brand: "Borges", MRP: 150, Category: models.CategoryGeneral}

	assert.InDelta(t, 100.0, SellPrice(121.0, p), tolerance)
}

func TestSellPriceReduced(t *testing.T) {
	tests := []struct {
		name     string
		rating   float64
		listed   float64
		expected float64
	}{
		{"high rating gets low rate", 4.0, 105.0, 100.0},
		{"low rating gets standard rate", 3.0, 110.0, 100.0},
		{"threshold rating is not enough", 3.5, 110.0, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Product{Name: "Bread", Brand: "Bimbo", MRP: 200, Category: models.CategoryReduced, AverageRating: tt.rating}
			assert.InDelta(t, tt.expected, SellPrice(tt.listed, p), tolerance)
		})
	}
}

func TestSellPriceSuperReduced(t *testing.T) {
	p := &models.Product{Name: "Milk", Brand: "Pascual", MRP: 300, Category: models.CategorySuperReduced}

	// At or above the threshold the listed price passes through unchanged.
	assert.InDelta(t, 100.0, SellPrice(100.0, p), tolerance)
	assert.InDelta(t, 250.0, SellPrice(250.0, p), tolerance)

	// Below it, the super reduced tax is removed.
	assert.InDelta(t, 100.0, SellPrice(104.0, p), tolerance)
}

func TestSellPriceIsMonotonicAndPure(t *testing.T) {
	products := []*models.Product{
		{Name: "a", Category: models.CategoryGeneral},
		{Name: "b", Category: models.CategoryReduced, AverageRating: 4.2},
		{Name: "c", Category: models.CategoryReduced, AverageRating: 2.0},
		{Name: "d", Category: models.CategorySuperReduced},
	}

	for _, p := range products {
		prev := -1.0
		for listed := 0.0; listed <= 300.0; listed += 0.5 {
			got := SellPrice(listed, p)
			assert.GreaterOrEqual(t, got, prev, "category %s at %f", p.Category, listed)
			assert.Equal(t, got, SellPrice(listed, p), "same input must give same output")
			prev = got
		}
	}
}

func TestFinalPriceSponsored(t *testing.T) {
	shop := &models.Shop{Name: "TechCave", BusinessModel: models.ModelSponsored, SponsorBrand: "Acme"}

	sponsored := &models.Product{Name: "Widget", Brand: "Acme", Category: models.CategoryGeneral}
	other := &models.Product{Name: "Gadget", Brand: "Initech", Category: models.CategoryGeneral}

	assert.InDelta(t, SellPrice(121.0, sponsored)*0.9, FinalPrice(121.0, shop, sponsored), tolerance)
	assert.InDelta(t, SellPrice(121.0, other), FinalPrice(121.0, shop, other), tolerance)
}

func TestFinalPriceOtherModelsApplyNoDiscount(t *testing.T) {
	p := &models.Product{Name: "Widget", Brand: "Acme", Category: models.CategoryReduced, AverageRating: 4.5}

	for _, model := range []models.BusinessModel{models.ModelMaxProfit, models.ModelLoyalty} {
		shop := &models.Shop{Name: "S", BusinessModel: model, SponsorBrand: "Acme"}
		assert.InDelta(t, SellPrice(80.0, p), FinalPrice(80.0, shop, p), tolerance)
	}
}
