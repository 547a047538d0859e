// Package filesystem implements the persistent virtual filesystem behind the
// desktop shell.
//
// The Provider is the only component that enforces tree invariants. Every
// node lives in a storage.Store keyed by its absolute path, and every folder
// lists its direct children as absolute paths. After each mutation the
// parent's children list is repaired and its mtime bumped.
//
// This package is organized into:
//   - provider: construction, Init, reads (List, ReadFile, Stat, Exists)
//   - mutate: WriteFile, Mkdir, Delete, Move, Rename
//   - queue: the single writer that serializes all mutations
//   - metadata: tags, previews, file association, search, open-with
//   - export: subtree dumps (JSON, YAML, TOML) and tar archives
//   - service: the filesystem.* tools exposed through the service registry
//
// Not-found is never an error: Stat returns nil, List returns an empty
// slice, Delete and Move of a missing path do nothing. WriteFile and Mkdir
// under a missing parent do nothing unless Options.Parents is ParentsStrict,
// in which case they return ErrParentMissing.
//
// Example Usage:
//
//	p := filesystem.New(store, filesystem.Options{Logger: logger})
//	defer p.Close()
//	if err := p.Init(ctx); err != nil {
//		return err
//	}
//	err := p.WriteFile(ctx, "/Users/notes.txt", "hello")
package filesystem
