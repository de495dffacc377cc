package mutation

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/observability"
)

// ErrPending is returned when a mutation of the same kind is still running.
var ErrPending = errors.New("mutation already pending")

// Dispatcher sends mutations to the gateway and applies the invalidation
// graph to the cache store after each success.
type Dispatcher struct {
	gw    gateway.Gateway
	store *cache.Store

	mu      sync.Mutex
	pending [numKinds]bool

	// apply serializes invalidation so two successful mutations never
	// interleave their effects on the store.
	apply sync.Mutex
}

// NewDispatcher builds a dispatcher over gw and store.
func NewDispatcher(gw gateway.Gateway, store *cache.Store) *Dispatcher {
	return &Dispatcher{gw: gw, store: store}
}

// Dispatch validates m, performs it remotely and invalidates the affected
// collections. On any failure the store is left untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, m Mutation) (Result, error) {
	kind := m.Kind()
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if !d.begin(kind) {
		return Result{}, ErrPending
	}
	defer d.finish(kind)

	res, err := m.Apply(ctx, d.gw)
	observability.RecordMutation(kind.String(), err)
	if err != nil {
		log.Printf("mutation %s failed: %v", kind, err)
		return Result{}, err
	}

	rule := Invalidates(kind)
	d.apply.Lock()
	rule.Apply(d.store)
	d.apply.Unlock()
	return res, nil
}

// Pending reports whether a mutation of kind is in flight.
func (d *Dispatcher) Pending(kind Kind) bool {
	if kind < 0 || kind >= numKinds {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending[kind]
}

func (d *Dispatcher) begin(kind Kind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[kind] {
		return false
	}
	d.pending[kind] = true
	return true
}

func (d *Dispatcher) finish(kind Kind) {
	d.mu.Lock()
	d.pending[kind] = false
	d.mu.Unlock()
}
