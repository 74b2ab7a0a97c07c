package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// Remote is the client of the remote catalog store. Each entity type
// lives under a fixed resource path below the group identifier; deletes
// and updates are positional, so positions are resolved with a fresh
// read-all immediately before every positional mutation.
type Remote struct {
	baseURL string
	group   string
	client  *http.Client
	logger  *zap.Logger
}

// NewRemote builds a remote store client with connect and read timeouts.
func NewRemote(baseURL, group string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		group:   group,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: timeout}).DialContext,
			},
		},
		logger: util.GetLogger(),
	}
}

// Reachable probes the store with a HEAD request. The result is valid for
// this call only; callers re-probe before every operation.
func (r *Remote) Reachable(ctx context.Context) bool {
	up := r.probe(ctx)
	if up {
		util.RemoteProbesTotal.WithLabelValues("up").Inc()
	} else {
		util.RemoteProbesTotal.WithLabelValues("down").Inc()
	}
	return up
}

func (r *Remote) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (r *Remote) productsURL() string {
	return fmt.Sprintf("%s/%s/products", r.baseURL, r.group)
}

func (r *Remote) shopsURL() string {
	return fmt.Sprintf("%s/%s/shops", r.baseURL, r.group)
}

// LoadProducts reads the full remote product collection, skipping records
// with unrecognized category tags.
func (r *Remote) LoadProducts(ctx context.Context) ([]models.Product, error) {
	body, err := r.do(ctx, http.MethodGet, r.productsURL(), nil)
	if err != nil {
		return nil, storeErr("load", "products", r.productsURL(), err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, storeErr("decode", "products", r.productsURL(), fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	products := make([]models.Product, 0, len(raw))
	for i, msg := range raw {
		p, err := decodeProduct(msg)
		if err != nil {
			r.logger.Warn("Skipping unparseable remote product",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// AppendProduct posts one product to the end of the remote collection.
func (r *Remote) AppendProduct(ctx context.Context, p models.Product) error {
	if _, err := r.do(ctx, http.MethodPost, r.productsURL(), p); err != nil {
		return storeErr("append", "products", r.productsURL(), err)
	}
	return nil
}

// DeleteProduct removes the product at the given position. Positions
// shift after every mutation, so the position must come from a read-all
// performed immediately before this call.
func (r *Remote) DeleteProduct(ctx context.Context, position int) error {
	url := fmt.Sprintf("%s/%d", r.productsURL(), position)
	if _, err := r.do(ctx, http.MethodDelete, url, nil); err != nil {
		return storeErr("delete", "products", url, err)
	}
	return nil
}

// UpdateProduct replaces the remote record whose name matches the given
// product: it resolves the position by scanning a fresh read-all, deletes
// that record and appends the new one.
func (r *Remote) UpdateProduct(ctx context.Context, p models.Product) error {
	products, err := r.LoadProducts(ctx)
	if err != nil {
		return err
	}
	position := -1
	for i := range products {
		if strings.EqualFold(products[i].Name, p.Name) {
			position = i
			break
		}
	}
	if position >= 0 {
		if err := r.DeleteProduct(ctx, position); err != nil {
			return err
		}
	}
	return r.AppendProduct(ctx, p)
}

// LoadShops reads the full remote shop collection, dropping nameless
// records and records with unrecognized business model tags.
func (r *Remote) LoadShops(ctx context.Context) ([]models.Shop, error) {
	body, err := r.do(ctx, http.MethodGet, r.shopsURL(), nil)
	if err != nil {
		return nil, storeErr("load", "shops", r.shopsURL(), err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, storeErr("decode", "shops", r.shopsURL(), fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	shops := make([]models.Shop, 0, len(raw))
	for i, msg := range raw {
		s, err := decodeShop(msg)
		if err != nil {
			r.logger.Warn("Skipping unparseable remote shop",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		shops = append(shops, s)
	}
	return shops, nil
}

// SaveShop upserts a shop: an existing record with the same name is
// deleted by position first, then the shop is appended.
func (r *Remote) SaveShop(ctx context.Context, shop models.Shop) error {
	position, err := r.ShopPosition(ctx, shop.Name)
	if err != nil {
		return err
	}
	if position >= 0 {
		url := fmt.Sprintf("%s/%d", r.shopsURL(), position)
		if _, err := r.do(ctx, http.MethodDelete, url, nil); err != nil {
			return storeErr("delete", "shops", url, err)
		}
	}
	if _, err := r.do(ctx, http.MethodPost, r.shopsURL(), shop); err != nil {
		return storeErr("append", "shops", r.shopsURL(), err)
	}
	return nil
}

// UpdateShop replaces the record at the shop's current position in place.
func (r *Remote) UpdateShop(ctx context.Context, shop models.Shop) error {
	position, err := r.ShopPosition(ctx, shop.Name)
	if err != nil {
		return err
	}
	if position < 0 {
		return storeErr("update", "shops", r.shopsURL(), fmt.Errorf("shop not found: %s", shop.Name))
	}
	url := fmt.Sprintf("%s/%d", r.shopsURL(), position)
	if _, err := r.do(ctx, http.MethodPut, url, shop); err != nil {
		return storeErr("update", "shops", url, err)
	}
	return nil
}

// ShopPosition resolves a shop's current position with a fresh read-all.
// Returns -1 when no record matches.
func (r *Remote) ShopPosition(ctx context.Context, name string) (int, error) {
	shops, err := r.LoadShops(ctx)
	if err != nil {
		return -1, err
	}
	for i := range shops {
		if strings.EqualFold(shops[i].Name, name) {
			return i, nil
		}
	}
	return -1, nil
}

func (r *Remote) do(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	op := opForMethod(method)
	resp, err := r.client.Do(req)
	if err != nil {
		util.StoreRequestsTotal.WithLabelValues("remote", op, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		util.StoreRequestsTotal.WithLabelValues("remote", op, "error").Inc()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		util.StoreRequestsTotal.WithLabelValues("remote", op, "error").Inc()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	util.StoreRequestsTotal.WithLabelValues("remote", op, "ok").Inc()
	return respBody, nil
}

func opForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "append"
	case http.MethodDelete:
		return "delete"
	case http.MethodPut:
		return "update"
	}
	return strings.ToLower(method)
}
