package storage

import (
	"context"
	"errors"

	"github.com/nyxos/backend/internal/shared/types"
)

// Backend names accepted by Open
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBlob     = "blob"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a durable path-keyed node store
type Store interface {
	// Get returns the node at path, or nil when there is none.
	Get(ctx context.Context, path string) (*types.Node, error)
	// Put stores node under node.Path, replacing any previous record.
	Put(ctx context.Context, node *types.Node) error
	// Remove deletes the record at path. Removing a missing path is a no-op.
	Remove(ctx context.Context, path string) error
	// Kind names the backend, e.g. "sqlite".
	Kind() string
	Close() error
}

// Config selects and locates a backend
type Config struct {
	Backend      string
	DSN          string
	FallbackPath string
}
