package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Postgres backs the catalog store service. Each collection is a table
// of JSON documents kept in insertion order; the row ordering defines the
// positions the HTTP contract exposes.
type Postgres struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db, logger: util.GetLogger()}, nil
}

// Close closes the database connection
func (s *Postgres) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Postgres) GetDB() *sqlx.DB {
	return s.db
}

// ListProducts returns the product collection in insertion order.
// Documents that no longer parse are skipped, not fatal for the listing.
func (s *Postgres) ListProducts(ctx context.Context) ([]models.Product, error) {
	var docs [][]byte
	err := s.db.SelectContext(ctx, &docs, "SELECT doc FROM products ORDER BY id")
	if err != nil {
		return nil, storeErr("list", "products", "", err)
	}

	products := make([]models.Product, 0, len(docs))
	for i, doc := range docs {
		p, err := decodeProduct(doc)
		if err != nil {
			s.logger.Warn("Skipping unparseable product document",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// AppendProduct adds a product to the end of the collection.
func (s *Postgres) AppendProduct(ctx context.Context, p models.Product) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return storeErr("encode", "products", "", err)
	}
	_, err = s.db.ExecContext(ctx, "INSERT INTO products (doc) VALUES ($1)", doc)
	if err != nil {
		return storeErr("append", "products", "", err)
	}
	return nil
}

// DeleteProductAt removes the product at the given position. Positions
// are zero-based over the current insertion order.
func (s *Postgres) DeleteProductAt(ctx context.Context, position int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = (SELECT id FROM products ORDER BY id OFFSET $1 LIMIT 1)",
		position)
	if err != nil {
		return false, storeErr("delete", "products", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateProductAt replaces the document at the given position in place.
func (s *Postgres) UpdateProductAt(ctx context.Context, position int, p models.Product) (bool, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return false, storeErr("encode", "products", "", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET doc = $1 WHERE id = (SELECT id FROM products ORDER BY id OFFSET $2 LIMIT 1)",
		doc, position)
	if err != nil {
		return false, storeErr("update", "products", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListShops returns the shop collection in insertion order.
func (s *Postgres) ListShops(ctx context.Context) ([]models.Shop, error) {
	var docs [][]byte
	err := s.db.SelectContext(ctx, &docs, "SELECT doc FROM shops ORDER BY id")
	if err != nil {
		return nil, storeErr("list", "shops", "", err)
	}

	shops := make([]models.Shop, 0, len(docs))
	for i, doc := range docs {
		sh, err := decodeShop(doc)
		if err != nil {
			s.logger.Warn("Skipping unparseable shop document",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		shops = append(shops, sh)
	}
	return shops, nil
}

// AppendShop adds a shop to the end of the collection.
func (s *Postgres) AppendShop(ctx context.Context, shop models.Shop) error {
	doc, err := json.Marshal(shop)
	if err != nil {
		return storeErr("encode", "shops", "", err)
	}
	_, err = s.db.ExecContext(ctx, "INSERT INTO shops (doc) VALUES ($1)", doc)
	if err != nil {
		return storeErr("append", "shops", "", err)
	}
	return nil
}

// DeleteShopAt removes the shop at the given position.
func (s *Postgres) DeleteShopAt(ctx context.Context, position int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM shops WHERE id = (SELECT id FROM shops ORDER BY id OFFSET $1 LIMIT 1)",
		position)
	if err != nil {
		return false, storeErr("delete", "shops", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ShopAt reads the single shop document at the given position. A position
// beyond the collection is a nil result, not an error, so positional
// updates can answer not-found the same way positional deletes do.
func (s *Postgres) ShopAt(ctx context.Context, position int) (*models.Shop, error) {
	var doc []byte
	err := s.db.GetContext(ctx, &doc,
		"SELECT doc FROM shops ORDER BY id OFFSET $1 LIMIT 1", position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get", "shops", "", err)
	}
	shop, err := decodeShop(doc)
	if err != nil {
		return nil, storeErr("decode", "shops", "", err)
	}
	return &shop, nil
}

// UpdateShopAt replaces the document at the given position in place.
func (s *Postgres) UpdateShopAt(ctx context.Context, position int, shop models.Shop) (bool, error) {
	doc, err := json.Marshal(shop)
	if err != nil {
		return false, storeErr("encode", "shops", "", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE shops SET doc = $1 WHERE id = (SELECT id FROM shops ORDER BY id OFFSET $2 LIMIT 1)",
		doc, position)
	if err != nil {
		return false, storeErr("update", "shops", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
