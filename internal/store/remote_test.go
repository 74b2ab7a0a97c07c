package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves the positional remote contract over an in-memory
// slice of JSON documents per collection.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]json.RawMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: map[string][]json.RawMessage{
		"products": {},
		"shops":    {},
	}}
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		collection := parts[1]
		pos := -1
		haveBoth := false
		if len(parts) == 3 {
			p, err := strconv.Atoi(parts[2])
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			pos = p
			haveBoth = true
		}

		docs, ok := f.collections[collection]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		switch {
		case r.Method == http.MethodGet && !haveBoth:
			w.Header().Set("Content-Type", "application/json")
			out, _ := json.Marshal(docs)
			_, _ = w.Write(out)
		case r.Method == http.MethodPost && !haveBoth:
			var doc json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.collections[collection] = append(docs, doc)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete && haveBoth:
			if pos < 0 || pos >= len(docs) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.collections[collection] = append(docs[:pos], docs[pos+1:]...)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut && haveBoth:
			if pos < 0 || pos >= len(docs) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var doc json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			docs[pos] = doc
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func newTestRemote(t *testing.T) (*Remote, *fakeStore) {
	t.Helper()
	fake := newFakeStore()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewRemote(srv.URL, "P1-G70", 2*time.Second), fake
}

func TestRemoteReachable(t *testing.T) {
	remote, _ := newTestRemote(t)
	assert.True(t, remote.Reachable(context.Background()))

	down := NewRemote("http://127.0.0.1:1", "P1-G70", 200*time.Millisecond)
	assert.False(t, down.Reachable(context.Background()))
}

func TestRemoteProductsAppendAndLoad(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	p := models.Product{Name: "Olive Oil", Brand: "Borges", MRP: 8.50, Category: models.CategoryGeneral}
	require.NoError(t, remote.AppendProduct(ctx, p))

	products, err := remote.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Olive Oil", products[0].Name)
	assert.NotNil(t, products[0].Reviews)
}

func TestRemoteDeleteProductIsPositional(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		require.NoError(t, remote.AppendProduct(ctx, models.Product{
			Name: name, Brand: "Acme", MRP: 1.0, Category: models.CategoryGeneral,
		}))
	}

	require.NoError(t, remote.DeleteProduct(ctx, 1))

	products, err := remote.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "First", products[0].Name)
	assert.Equal(t, "Third", products[1].Name)
}

func TestRemoteUpdateProductReplacesByName(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	require.NoError(t, remote.AppendProduct(ctx, models.Product{
		Name: "Bread", Brand: "Panrico", MRP: 2.0, Category: models.CategoryGeneral,
	}))
	require.NoError(t, remote.AppendProduct(ctx, models.Product{
		Name: "Soap", Brand: "Lagarto", MRP: 3.0, Category: models.CategoryGeneral,
	}))

	updated := models.Product{
		Name: "Bread", Brand: "Panrico", MRP: 2.0, Category: models.CategoryGeneral,
		Reviews: []models.Review{{Rating: 5, Comment: "fresh"}},
	}
	require.NoError(t, remote.UpdateProduct(ctx, updated))

	products, err := remote.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	// Delete-then-append moves the updated record to the end.
	assert.Equal(t, "Soap", products[0].Name)
	assert.Equal(t, "Bread", products[1].Name)
	require.Len(t, products[1].Reviews, 1)
	assert.Equal(t, "fresh", products[1].Reviews[0].Comment)
}

func TestRemoteSaveShopUpserts(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	shop := models.Shop{Name: "Corner", BusinessModel: models.ModelMaxProfit}
	require.NoError(t, remote.SaveShop(ctx, shop))
	require.NoError(t, remote.SaveShop(ctx, shop))

	shops, err := remote.LoadShops(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 1)
}

func TestRemoteUpdateShopInPlace(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	require.NoError(t, remote.SaveShop(ctx, models.Shop{Name: "Corner", BusinessModel: models.ModelMaxProfit}))
	require.NoError(t, remote.SaveShop(ctx, models.Shop{Name: "Faithful", BusinessModel: models.ModelLoyalty, LoyaltyThreshold: 100}))

	require.NoError(t, remote.UpdateShop(ctx, models.Shop{
		Name: "Corner", BusinessModel: models.ModelMaxProfit, Earnings: 55.0,
	}))

	shops, err := remote.LoadShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "Corner", shops[0].Name)
	assert.InDelta(t, 55.0, shops[0].Earnings, 0.0001)

	err = remote.UpdateShop(ctx, models.Shop{Name: "Ghost", BusinessModel: models.ModelMaxProfit})
	require.Error(t, err)
}

func TestRemoteLoadSkipsBadRecords(t *testing.T) {
	remote, fake := newTestRemote(t)
	ctx := context.Background()

	fake.mu.Lock()
	fake.collections["products"] = []json.RawMessage{
		json.RawMessage(`{"name": "Good", "brand": "Acme", "mrp": 1.0, "category": "GENERAL"}`),
		json.RawMessage(`{"name": "Bad", "brand": "Acme", "mrp": 1.0, "category": "LUXURY"}`),
	}
	fake.mu.Unlock()

	products, err := remote.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Good", products[0].Name)
}

func TestRemoteCountsProbesAndRequests(t *testing.T) {
	remote, _ := newTestRemote(t)
	ctx := context.Background()

	up := testutil.ToFloat64(util.RemoteProbesTotal.WithLabelValues("up"))
	down := testutil.ToFloat64(util.RemoteProbesTotal.WithLabelValues("down"))
	reads := testutil.ToFloat64(util.StoreRequestsTotal.WithLabelValues("remote", "read", "ok"))
	appends := testutil.ToFloat64(util.StoreRequestsTotal.WithLabelValues("remote", "append", "ok"))

	assert.True(t, remote.Reachable(ctx))
	require.NoError(t, remote.AppendProduct(ctx, models.Product{
		Name: "Olive Oil", Brand: "Borges", MRP: 8.50, Category: models.CategoryGeneral,
	}))
	_, err := remote.LoadProducts(ctx)
	require.NoError(t, err)

	assert.InDelta(t, up+1, testutil.ToFloat64(util.RemoteProbesTotal.WithLabelValues("up")), 0.0001)
	assert.InDelta(t, reads+1, testutil.ToFloat64(util.StoreRequestsTotal.WithLabelValues("remote", "read", "ok")), 0.0001)
	assert.InDelta(t, appends+1, testutil.ToFloat64(util.StoreRequestsTotal.WithLabelValues("remote", "append", "ok")), 0.0001)

	broken := NewRemote("http://127.0.0.1:1", "P1-G70", 200*time.Millisecond)
	assert.False(t, broken.Reachable(ctx))
	assert.InDelta(t, down+1, testutil.ToFloat64(util.RemoteProbesTotal.WithLabelValues("down")), 0.0001)
}

func TestRemoteUnreachableErrors(t *testing.T) {
	remote := NewRemote("http://127.0.0.1:1", "P1-G70", 200*time.Millisecond)

	_, err := remote.LoadProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
}
