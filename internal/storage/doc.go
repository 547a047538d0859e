/*
Package storage persists filesystem nodes keyed by absolute path.

# Overview

Every backend implements the same context-first Store contract, so the
filesystem provider never branches on which one is in use:

	Get(ctx, path)    -> (*types.Node, error)   // (nil, nil) when absent
	Put(ctx, node)    -> error                  // wholesale upsert by path
	Remove(ctx, path) -> error                  // missing path is a no-op

# Backends

  - sqlite: primary backend. One versioned table nodes(path, value).
  - postgres: same schema for shared deployments.
  - blob: in-memory map mirrored into a single JSON slot on disk under the
    key "osfs". Used directly, or as the fallback when the configured
    backend cannot be opened.

# Usage

	store, err := storage.Open(ctx, storage.Config{
		Backend:      storage.BackendSQLite,
		DSN:          "osfs.db",
		FallbackPath: "osfs.json",
	}, logger)
	if err != nil {
		return err
	}
	defer store.Close()
*/
package storage
