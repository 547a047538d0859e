package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
)

// breakerTimeout is how long a tripped postgres breaker stays open
const breakerTimeout = 30 * time.Second

// Open opens the configured backend. When it cannot be opened the blob
// backend at cfg.FallbackPath is used instead and a warning is logged; if
// even the slot is unreadable the store is kept in memory. Only an unknown
// backend name is returned as an error.
func Open(ctx context.Context, cfg Config, logger *logging.Logger) (Store, error) {
	logger = logging.OrNop(logger).Named("storage")

	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendSQLite, "":
		store, err = OpenSQLite(ctx, cfg.DSN, logger)
	case BackendPostgres:
		var pg Store
		pg, err = OpenPostgres(ctx, cfg.DSN, logger)
		if err == nil {
			store = Guard(pg, breakerTimeout, logger)
		}
	case BackendBlob:
		store, err = OpenBlob(cfg.FallbackPath, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err == nil {
		logger.Info("storage opened", zap.String("backend", store.Kind()))
		return store, nil
	}

	logger.Warn("storage backend unavailable, falling back to blob slot",
		zap.String("backend", cfg.Backend),
		zap.String("slot", cfg.FallbackPath),
		zap.Error(err))

	blob, err := OpenBlob(cfg.FallbackPath, logger)
	if err != nil {
		logger.Warn("blob slot unreadable, keeping filesystem in memory", zap.Error(err))
		blob, _ = OpenBlob("", logger)
	}
	return blob, nil
}
