package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Postgres{db: sqlx.NewDb(db, "sqlmock"), logger: util.GetLogger()}, mock
}

func TestShopAtReturnsRecord(t *testing.T) {
	s, mock := newMockStore(t)

	doc, err := json.Marshal(models.Shop{
		Name:          "Corner",
		BusinessModel: models.ModelMaxProfit,
		Catalogue:     []models.CatalogueEntry{},
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT doc FROM shops").
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	shop, err := s.ShopAt(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "Corner", shop.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A stale position on a shop update must answer not-found, exactly like a
// stale position on a delete.
func TestShopAtMissingPositionIsNotAnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT doc FROM shops").
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	shop, err := s.ShopAt(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, shop)
	require.NoError(t, mock.ExpectationsWereMet())
}
