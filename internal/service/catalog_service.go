package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carlaabellana/ElCofre/internal/broker"
	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/redisclient"
	"github.com/carlaabellana/ElCofre/internal/store"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

const (
	productsCollection = "products"
	shopsCollection    = "shops"

	mutationLockTTL = 5 * time.Second
)

// CatalogService backs the catalog store HTTP API. It owns the
// insertion-ordered collections in Postgres, a read-through collection
// cache in Redis and the event stream fed from observed mutations. The
// cache and the event stream are both best-effort: their failures are
// logged, never surfaced to the API caller.
type CatalogService struct {
	store  *store.Postgres
	cache  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewCatalogService creates the catalog service. Cache and events may be
// nil; the service then runs against the store alone.
func NewCatalogService(st *store.Postgres, cache *redisclient.Client, events *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		store:  st,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// ListProducts returns the product collection in insertion order,
// serving from the cache when it holds a fresh listing.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if s.cache != nil {
		if data, ok, err := s.cache.GetCollection(ctx, productsCollection); err == nil && ok {
			var products []models.Product
			if err := json.Unmarshal(data, &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheCollection(ctx, productsCollection, products)
	return products, nil
}

// CreateProduct appends a product to the collection.
func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	category, err := models.ParseCategory(string(p.Category))
	if err != nil {
		return err
	}
	p.Category = category
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}

	unlock := s.lock(ctx, productsCollection)
	defer unlock()

	if err := s.store.AppendProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, productsCollection)
	util.ProductsCreatedTotal.Inc()

	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishProductCreated(ctx, &models.ProductCreatedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeProductCreated),
			Name:      p.Name,
			Brand:     p.Brand,
			Category:  p.Category,
			MRP:       p.MRP,
		})
	})
	return nil
}

// RemoveProduct deletes the product at the given position. Returns false
// when the position does not resolve to a record.
func (s *CatalogService) RemoveProduct(ctx context.Context, position int) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.RemoveProduct")
	defer span.End()

	unlock := s.lock(ctx, productsCollection)
	defer unlock()

	name := ""
	if products, err := s.store.ListProducts(ctx); err == nil && position >= 0 && position < len(products) {
		name = products[position].Name
	}

	deleted, err := s.store.DeleteProductAt(ctx, position)
	if err != nil || !deleted {
		return deleted, err
	}
	s.invalidate(ctx, productsCollection)
	util.ProductsRemovedTotal.Inc()

	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishProductRemoved(ctx, &models.ProductRemovedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeProductRemoved),
			Position:  position,
			Name:      name,
		})
	})
	return true, nil
}

// ReplaceProduct overwrites the record at the given position in place.
func (s *CatalogService) ReplaceProduct(ctx context.Context, position int, p models.Product) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ReplaceProduct")
	defer span.End()

	category, err := models.ParseCategory(string(p.Category))
	if err != nil {
		return false, err
	}
	p.Category = category

	unlock := s.lock(ctx, productsCollection)
	defer unlock()

	updated, err := s.store.UpdateProductAt(ctx, position, p)
	if err != nil || !updated {
		return updated, err
	}
	s.invalidate(ctx, productsCollection)
	return true, nil
}

// ListShops returns the shop collection in insertion order.
func (s *CatalogService) ListShops(ctx context.Context) ([]models.Shop, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListShops")
	defer span.End()

	if s.cache != nil {
		if data, ok, err := s.cache.GetCollection(ctx, shopsCollection); err == nil && ok {
			var shops []models.Shop
			if err := json.Unmarshal(data, &shops); err == nil {
				return shops, nil
			}
		}
	}

	shops, err := s.store.ListShops(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheCollection(ctx, shopsCollection, shops)
	return shops, nil
}

// CreateShop appends a shop to the collection.
func (s *CatalogService) CreateShop(ctx context.Context, shop models.Shop) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateShop")
	defer span.End()

	model, err := models.ParseBusinessModel(string(shop.BusinessModel))
	if err != nil {
		return err
	}
	shop.BusinessModel = model
	if shop.Catalogue == nil {
		shop.Catalogue = []models.CatalogueEntry{}
	}

	unlock := s.lock(ctx, shopsCollection)
	defer unlock()

	if err := s.store.AppendShop(ctx, shop); err != nil {
		return err
	}
	s.invalidate(ctx, shopsCollection)
	util.ShopsCreatedTotal.WithLabelValues(string(model)).Inc()

	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishShopCreated(ctx, &models.ShopCreatedEvent{
			BaseEvent:     broker.NewBaseEvent(models.EventTypeShopCreated),
			Name:          shop.Name,
			BusinessModel: shop.BusinessModel,
			Since:         shop.Since,
		})
	})
	return nil
}

// RemoveShop deletes the shop at the given position.
func (s *CatalogService) RemoveShop(ctx context.Context, position int) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.RemoveShop")
	defer span.End()

	unlock := s.lock(ctx, shopsCollection)
	defer unlock()

	deleted, err := s.store.DeleteShopAt(ctx, position)
	if err != nil || !deleted {
		return deleted, err
	}
	s.invalidate(ctx, shopsCollection)
	return true, nil
}

// ReplaceShop overwrites the shop record at the given position in place.
// A replacement that raises the shop's cumulative earnings is a checkout
// settlement, so the observed delta is published as an EarningsPosted
// event, plus a RegularReached event the first time a LOYALTY shop's
// earnings cross its threshold.
func (s *CatalogService) ReplaceShop(ctx context.Context, position int, shop models.Shop) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ReplaceShop")
	defer span.End()

	model, err := models.ParseBusinessModel(string(shop.BusinessModel))
	if err != nil {
		return false, err
	}
	shop.BusinessModel = model

	unlock := s.lock(ctx, shopsCollection)
	defer unlock()

	prev, err := s.store.ShopAt(ctx, position)
	if err != nil {
		return false, err
	}
	if prev == nil {
		return false, nil
	}

	updated, err := s.store.UpdateShopAt(ctx, position, shop)
	if err != nil || !updated {
		return updated, err
	}
	s.invalidate(ctx, shopsCollection)

	amount, becameRegular := EarningsDelta(prev, &shop)
	if amount > 0 {
		util.EarningsPostedTotal.Add(amount)
		s.publish(ctx, func(ctx context.Context) error {
			return s.events.PublishEarningsPosted(ctx, &models.EarningsPostedEvent{
				BaseEvent:     broker.NewBaseEvent(models.EventTypeEarningsPosted),
				ShopName:      shop.Name,
				BusinessModel: shop.BusinessModel,
				Amount:        amount,
				TotalEarnings: shop.Earnings,
			})
		})
	}
	if becameRegular {
		util.RegularShopsTotal.Inc()
		s.publish(ctx, func(ctx context.Context) error {
			return s.events.PublishRegularReached(ctx, &models.RegularReachedEvent{
				BaseEvent:        broker.NewBaseEvent(models.EventTypeRegularReached),
				ShopName:         shop.Name,
				TotalEarnings:    shop.Earnings,
				LoyaltyThreshold: shop.LoyaltyThreshold,
			})
		})
	}
	if amount == 0 {
		s.publish(ctx, func(ctx context.Context) error {
			return s.events.PublishShopUpdated(ctx, &models.ShopUpdatedEvent{
				BaseEvent: broker.NewBaseEvent(models.EventTypeShopUpdated),
				Name:      shop.Name,
			})
		})
	}
	return true, nil
}

// EarningsDelta compares two versions of a shop record and reports the
// earnings increase, if any, and whether the replacement took a LOYALTY
// shop over its threshold for the first time.
func EarningsDelta(prev, next *models.Shop) (amount float64, becameRegular bool) {
	if next.Earnings > prev.Earnings {
		amount = next.Earnings - prev.Earnings
	}
	becameRegular = !prev.IsRegular() && next.IsRegular()
	return amount, becameRegular
}

func (s *CatalogService) cacheCollection(ctx context.Context, collection string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.SetCollection(ctx, collection, data); err != nil {
		s.logger.Warn("Failed to cache collection",
			zap.String("collection", collection),
			zap.Error(err))
	}
}

func (s *CatalogService) invalidate(ctx context.Context, collection string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCollection(ctx, collection); err != nil {
		s.logger.Warn("Failed to invalidate collection cache",
			zap.String("collection", collection),
			zap.Error(err))
	}
}

// lock serializes positional mutations across replicas. Lock failures
// degrade to proceeding without the lock.
func (s *CatalogService) lock(ctx context.Context, collection string) func() {
	if s.cache == nil {
		return func() {}
	}
	ok, err := s.cache.AcquireLock(ctx, collection, mutationLockTTL)
	if err != nil || !ok {
		return func() {}
	}
	return func() {
		if err := s.cache.ReleaseLock(ctx, collection); err != nil {
			s.logger.Warn("Failed to release lock",
				zap.String("collection", collection),
				zap.Error(err))
		}
	}
}

func (s *CatalogService) publish(ctx context.Context, fn func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("Failed to publish event", zap.Error(err))
	}
}
