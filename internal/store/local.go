package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// Local persists the product and shop collections as whole JSON files.
// The collection itself is the record: there is no per-entity keying.
type Local struct {
	productsPath string
	shopsPath    string
	logger       *zap.Logger
}

// NewLocal opens the local store. A missing products file is fatal (there
// is no fallback for the very first load); a missing shops file is
// created holding an empty collection.
func NewLocal(productsPath, shopsPath string) (*Local, error) {
	l := &Local{
		productsPath: productsPath,
		shopsPath:    shopsPath,
		logger:       util.GetLogger(),
	}

	if _, err := os.Stat(productsPath); err != nil {
		return nil, storeErr("open", "products", productsPath, err)
	}
	if _, err := os.Stat(shopsPath); err != nil {
		if err := l.SaveShops([]models.Shop{}); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// LoadProducts reads the full product collection. Records carrying an
// unrecognized category tag are skipped, not fatal for the load.
func (l *Local) LoadProducts() ([]models.Product, error) {
	data, err := os.ReadFile(l.productsPath)
	if err != nil {
		util.StoreRequestsTotal.WithLabelValues("local", "read", "error").Inc()
		return nil, storeErr("read", "products", l.productsPath, err)
	}
	util.StoreRequestsTotal.WithLabelValues("local", "read", "ok").Inc()

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, storeErr("decode", "products", l.productsPath, fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	products := make([]models.Product, 0, len(raw))
	for i, msg := range raw {
		p, err := decodeProduct(msg)
		if err != nil {
			l.logger.Warn("Skipping unparseable product record",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// SaveProducts writes the full product collection, replacing the file.
func (l *Local) SaveProducts(products []models.Product) error {
	return l.writeCollection(l.productsPath, "products", products)
}

// LoadShops reads the full shop collection, skipping records with an
// unrecognized business model tag.
func (l *Local) LoadShops() ([]models.Shop, error) {
	data, err := os.ReadFile(l.shopsPath)
	if err != nil {
		util.StoreRequestsTotal.WithLabelValues("local", "read", "error").Inc()
		return nil, storeErr("read", "shops", l.shopsPath, err)
	}
	util.StoreRequestsTotal.WithLabelValues("local", "read", "ok").Inc()

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, storeErr("decode", "shops", l.shopsPath, fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	shops := make([]models.Shop, 0, len(raw))
	for i, msg := range raw {
		s, err := decodeShop(msg)
		if err != nil {
			l.logger.Warn("Skipping unparseable shop record",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		shops = append(shops, s)
	}
	return shops, nil
}

// SaveShops writes the full shop collection, replacing the file.
func (l *Local) SaveShops(shops []models.Shop) error {
	return l.writeCollection(l.shopsPath, "shops", shops)
}

func (l *Local) writeCollection(path, target string, collection interface{}) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return storeErr("encode", target, path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		util.StoreRequestsTotal.WithLabelValues("local", "write", "error").Inc()
		return storeErr("write", target, path, err)
	}
	util.StoreRequestsTotal.WithLabelValues("local", "write", "ok").Inc()
	return nil
}

// decodeProduct parses one persisted product record and validates its
// category tag against the closed set.
func decodeProduct(msg json.RawMessage) (models.Product, error) {
	var p models.Product
	if err := json.Unmarshal(msg, &p); err != nil {
		return models.Product{}, err
	}
	category, err := models.ParseCategory(string(p.Category))
	if err != nil {
		return models.Product{}, err
	}
	p.Category = category
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	return p, nil
}

// decodeShop parses one persisted shop record and validates its business
// model tag against the closed set.
func decodeShop(msg json.RawMessage) (models.Shop, error) {
	var s models.Shop
	if err := json.Unmarshal(msg, &s); err != nil {
		return models.Shop{}, err
	}
	if s.Name == "" {
		return models.Shop{}, fmt.Errorf("shop record without a name")
	}
	model, err := models.ParseBusinessModel(string(s.BusinessModel))
	if err != nil {
		return models.Shop{}, err
	}
	s.BusinessModel = model
	if s.Catalogue == nil {
		s.Catalogue = []models.CatalogueEntry{}
	}
	return s, nil
}
