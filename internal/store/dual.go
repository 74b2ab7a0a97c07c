package store

import (
	"context"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// Dual routes every registry read and write to exactly one backend per
// call: the remote store when it is reachable, the local files otherwise.
// The probe runs before each call rather than once per session, so a
// process that loses the remote store simply serves the next operation
// from local state. The two sides are never merged; a process flipping
// between them must not assume they agree.
type Dual struct {
	Local  *Local
	Remote *Remote

	// Probe decides remote-mode for a single call. Injectable so tests
	// can pin either mode deterministically.
	Probe func(ctx context.Context) bool

	logger *zap.Logger
}

// NewDual wires the two backends together. With a nil remote the store
// is permanently in local mode.
func NewDual(local *Local, remote *Remote) *Dual {
	d := &Dual{
		Local:  local,
		Remote: remote,
		logger: util.GetLogger(),
	}
	if remote != nil {
		d.Probe = remote.Reachable
	} else {
		d.Probe = func(context.Context) bool { return false }
	}
	return d
}

// RemoteActive re-evaluates remote reachability for the current call.
func (d *Dual) RemoteActive(ctx context.Context) bool {
	return d.Remote != nil && d.Probe(ctx)
}

// MirrorShops opportunistically copies the shop collection to the local
// file while remote mode is active. A failed mirror is logged and never
// surfaced: the local copy is a cache, not a source of truth.
func (d *Dual) MirrorShops(shops []models.Shop) {
	if d.Local == nil {
		return
	}
	if err := d.Local.SaveShops(shops); err != nil {
		d.logger.Warn("Failed to mirror shops to local store", zap.Error(err))
	}
}

// MirrorProducts is the product-side counterpart of MirrorShops.
func (d *Dual) MirrorProducts(products []models.Product) {
	if d.Local == nil {
		return
	}
	if err := d.Local.SaveProducts(products); err != nil {
		d.logger.Warn("Failed to mirror products to local store", zap.Error(err))
	}
}
