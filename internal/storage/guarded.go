package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/infrastructure/resilience"
	"github.com/nyxos/backend/internal/shared/types"
)

// GuardedStore routes every call to a networked backend through a circuit
// breaker. While the breaker is open calls fail fast with
// resilience.ErrCircuitOpen instead of waiting on a dead server.
type GuardedStore struct {
	Store
	breaker *resilience.Breaker
}

// Guard wraps store in a breaker that opens after five consecutive failures
// and probes again after timeout
func Guard(store Store, timeout time.Duration, logger *logging.Logger) *GuardedStore {
	logger = logging.OrNop(logger)
	return &GuardedStore{
		Store: store,
		breaker: resilience.New(store.Kind(), resilience.Settings{
			Threshold: 5,
			Timeout:   timeout,
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn("store circuit breaker changed state",
					zap.String("backend", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

// State reports the breaker state
func (g *GuardedStore) State() resilience.State {
	return g.breaker.State()
}

func (g *GuardedStore) Get(ctx context.Context, path string) (*types.Node, error) {
	return resilience.Call(g.breaker, func() (*types.Node, error) {
		return g.Store.Get(ctx, path)
	})
}

func (g *GuardedStore) Put(ctx context.Context, node *types.Node) error {
	return g.breaker.Execute(func() error {
		return g.Store.Put(ctx, node)
	})
}

func (g *GuardedStore) Remove(ctx context.Context, path string) error {
	return g.breaker.Execute(func() error {
		return g.Store.Remove(ctx, path)
	})
}
