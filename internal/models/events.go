package models

import "time"

// Event types published by the catalog store service
const (
	EventTypeProductCreated = "PRODUCT_CREATED"
	EventTypeProductRemoved = "PRODUCT_REMOVED"
	EventTypeShopCreated    = "SHOP_CREATED"
	EventTypeShopUpdated    = "SHOP_UPDATED"
	EventTypeEarningsPosted = "EARNINGS_POSTED"
	EventTypeRegularReached = "REGULAR_REACHED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductCreatedEvent published when a product is appended to the catalog
type ProductCreatedEvent struct {
	BaseEvent
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Category Category `json:"category"`
	MRP      float64  `json:"mrp"`
}

// ProductRemovedEvent published when a product is withdrawn from sale
type ProductRemovedEvent struct {
	BaseEvent
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
}

// ShopCreatedEvent published when a shop joins the marketplace
type ShopCreatedEvent struct {
	BaseEvent
	Name          string        `json:"name"`
	BusinessModel BusinessModel `json:"business_model"`
	Since         int           `json:"since"`
}

// ShopUpdatedEvent published when a shop record is replaced in place
type ShopUpdatedEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// EarningsPostedEvent published when a shop update raises its cumulative
// earnings; the delta is the amount a checkout settled against that shop.
type EarningsPostedEvent struct {
	BaseEvent
	ShopName      string        `json:"shop_name"`
	BusinessModel BusinessModel `json:"business_model"`
	Amount        float64       `json:"amount"`
	TotalEarnings float64       `json:"total_earnings"`
}

// RegularReachedEvent published the first time a LOYALTY shop's earnings
// cross its loyalty threshold.
type RegularReachedEvent struct {
	BaseEvent
	ShopName         string  `json:"shop_name"`
	TotalEarnings    float64 `json:"total_earnings"`
	LoyaltyThreshold float64 `json:"loyalty_threshold"`
}
