package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing catalog domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// NewBaseEvent stamps a fresh event envelope.
func NewBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishProductCreated publishes ProductCreated event
func (ep *EventPublisher) PublishProductCreated(ctx context.Context, event *models.ProductCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("product-%s", event.Name), event)
}

// PublishProductRemoved publishes ProductRemoved event
func (ep *EventPublisher) PublishProductRemoved(ctx context.Context, event *models.ProductRemovedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("product-%s", event.Name), event)
}

// PublishShopCreated publishes ShopCreated event
func (ep *EventPublisher) PublishShopCreated(ctx context.Context, event *models.ShopCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("shop-%s", event.Name), event)
}

// PublishShopUpdated publishes ShopUpdated event
func (ep *EventPublisher) PublishShopUpdated(ctx context.Context, event *models.ShopUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("shop-%s", event.Name), event)
}

// PublishEarningsPosted publishes EarningsPosted event
func (ep *EventPublisher) PublishEarningsPosted(ctx context.Context, event *models.EarningsPostedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("shop-%s", event.ShopName), event)
}

// PublishRegularReached publishes RegularReached event
func (ep *EventPublisher) PublishRegularReached(ctx context.Context, event *models.RegularReachedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("shop-%s", event.ShopName), event)
}

// EventHandler routes incoming catalog events to registered callbacks.
type EventHandler struct {
	onEarningsPosted func(context.Context, *models.EarningsPostedEvent) error
	onRegularReached func(context.Context, *models.RegularReachedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnEarningsPosted registers a handler for EarningsPosted events
func (eh *EventHandler) OnEarningsPosted(handler func(context.Context, *models.EarningsPostedEvent) error) {
	eh.onEarningsPosted = handler
}

// OnRegularReached registers a handler for RegularReached events
func (eh *EventHandler) OnRegularReached(handler func(context.Context, *models.RegularReachedEvent) error) {
	eh.onRegularReached = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeEarningsPosted:
		if eh.onEarningsPosted != nil {
			var event models.EarningsPostedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal EarningsPosted event: %w", err)
			}
			return eh.onEarningsPosted(ctx, &event)
		}

	case models.EventTypeRegularReached:
		if eh.onRegularReached != nil {
			var event models.RegularReachedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal RegularReached event: %w", err)
			}
			return eh.onRegularReached(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
