package service

import (
	"testing"

	"github.com/carlaabellana/ElCofre/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEarningsDelta(t *testing.T) {
	prev := &models.Shop{
		Name:             "Faithful",
		BusinessModel:    models.ModelLoyalty,
		Earnings:         90.0,
		LoyaltyThreshold: 100.0,
	}
	next := *prev
	next.Earnings = 120.0

	amount, becameRegular := EarningsDelta(prev, &next)
	assert.InDelta(t, 30.0, amount, 0.0001)
	assert.True(t, becameRegular)

	// Already-regular shops accrue without re-reporting the transition.
	further := next
	further.Earnings = 150.0
	amount, becameRegular = EarningsDelta(&next, &further)
	assert.InDelta(t, 30.0, amount, 0.0001)
	assert.False(t, becameRegular)
}

func TestEarningsDeltaIgnoresNonIncreases(t *testing.T) {
	prev := &models.Shop{Name: "Corner", BusinessModel: models.ModelMaxProfit, Earnings: 50.0}

	same := *prev
	amount, becameRegular := EarningsDelta(prev, &same)
	assert.Zero(t, amount)
	assert.False(t, becameRegular)

	// A lower value is a correction, not a settlement.
	lower := *prev
	lower.Earnings = 10.0
	amount, _ = EarningsDelta(prev, &lower)
	assert.Zero(t, amount)
}

func TestEarningsDeltaNonLoyaltyNeverRegular(t *testing.T) {
	prev := &models.Shop{Name: "Corner", BusinessModel: models.ModelMaxProfit, Earnings: 0}
	next := *prev
	next.Earnings = 100000.0

	_, becameRegular := EarningsDelta(prev, &next)
	assert.False(t, becameRegular)
}
