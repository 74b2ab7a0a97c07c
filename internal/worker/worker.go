package worker

import (
	"context"

	"github.com/carlaabellana/ElCofre/internal/broker"
	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// EarningsWorker consumes the catalog event stream and keeps the
// settlement metrics and loyalty audit log. It fans in EarningsPosted
// and RegularReached events from every service replica, so the numbers
// it logs cover the whole marketplace, not one process.
type EarningsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewEarningsWorker creates the worker and registers its event handlers.
func NewEarningsWorker(consumer *broker.Consumer) *EarningsWorker {
	w := &EarningsWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnEarningsPosted(w.handleEarningsPosted)
	eventHandler.OnRegularReached(w.handleRegularReached)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *EarningsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting earnings worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *EarningsWorker) Stop() error {
	w.logger.Info("Stopping earnings worker")
	return w.consumer.Close()
}

func (w *EarningsWorker) handleEarningsPosted(ctx context.Context, event *models.EarningsPostedEvent) error {
	w.logger.Info("Earnings posted",
		zap.String("shop", event.ShopName),
		zap.String("business_model", string(event.BusinessModel)),
		zap.Float64("amount", event.Amount),
		zap.Float64("total_earnings", event.TotalEarnings))
	return nil
}

func (w *EarningsWorker) handleRegularReached(ctx context.Context, event *models.RegularReachedEvent) error {
	w.logger.Info("Shop reached regular status",
		zap.String("shop", event.ShopName),
		zap.Float64("total_earnings", event.TotalEarnings),
		zap.Float64("loyalty_threshold", event.LoyaltyThreshold))
	return nil
}
