// Package vfs is the filesystem surface applications use. It selects and
// opens the storage backend, builds the provider over it, and delegates
// every call to the provider unchanged.
package vfs

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/providers/filesystem"
	"github.com/nyxos/backend/internal/shared/types"
	"github.com/nyxos/backend/internal/storage"
)

// Config selects the store and the provider policies
type Config struct {
	Storage                storage.Config
	StrictParents          bool
	PreserveMetadataOnMove bool
	Observer               filesystem.Observer
}

// FileSystem is the application-facing filesystem
type FileSystem struct {
	provider *filesystem.Provider
}

// Open opens the configured store, falling back to the blob slot when it is
// unavailable, and returns a ready filesystem. Callers still run Init.
func Open(ctx context.Context, cfg Config, logger *logging.Logger) (*FileSystem, error) {
	logger = logging.OrNop(logger)

	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	opts := filesystem.Options{
		PreserveMetadataOnMove: cfg.PreserveMetadataOnMove,
		Logger:                 logger,
		Observer:               cfg.Observer,
	}
	if cfg.StrictParents {
		opts.Parents = filesystem.ParentsStrict
	}

	logger.Info("filesystem ready",
		zap.String("backend", store.Kind()),
		zap.String("parents", opts.Parents.String()),
		zap.Bool("preserve_metadata_on_move", opts.PreserveMetadataOnMove))
	return New(store, opts), nil
}

// New wraps an already opened store
func New(store storage.Store, opts filesystem.Options) *FileSystem {
	return &FileSystem{provider: filesystem.New(store, opts)}
}

// Backend names the store in use
func (f *FileSystem) Backend() string { return f.provider.Backend() }

// Close stops the filesystem and closes its store
func (f *FileSystem) Close() error { return f.provider.Close() }

func (f *FileSystem) Init(ctx context.Context) error { return f.provider.Init(ctx) }

func (f *FileSystem) List(ctx context.Context, path string) ([]types.Node, error) {
	return f.provider.List(ctx, path)
}

func (f *FileSystem) ReadFile(ctx context.Context, path string) (string, bool, error) {
	return f.provider.ReadFile(ctx, path)
}

func (f *FileSystem) WriteFile(ctx context.Context, path, content string) error {
	return f.provider.WriteFile(ctx, path, content)
}

func (f *FileSystem) Mkdir(ctx context.Context, path string) error {
	return f.provider.Mkdir(ctx, path)
}

func (f *FileSystem) Delete(ctx context.Context, path string) error {
	return f.provider.Delete(ctx, path)
}

func (f *FileSystem) Move(ctx context.Context, src, dest string) error {
	return f.provider.Move(ctx, src, dest)
}

func (f *FileSystem) Rename(ctx context.Context, oldPath, newPath string) error {
	return f.provider.Rename(ctx, oldPath, newPath)
}

func (f *FileSystem) Exists(ctx context.Context, path string) (bool, error) {
	return f.provider.Exists(ctx, path)
}

func (f *FileSystem) Stat(ctx context.Context, path string) (*types.Node, error) {
	return f.provider.Stat(ctx, path)
}

func (f *FileSystem) SetTags(ctx context.Context, path string, tags []string) error {
	return f.provider.SetTags(ctx, path, tags)
}

func (f *FileSystem) SetPreview(ctx context.Context, path, ref string) error {
	return f.provider.SetPreview(ctx, path, ref)
}

func (f *FileSystem) SetAssocApp(ctx context.Context, path, app string) error {
	return f.provider.SetAssocApp(ctx, path, app)
}

func (f *FileSystem) Search(ctx context.Context, root, query string) ([]types.Node, error) {
	return f.provider.Search(ctx, root, query)
}

func (f *FileSystem) Glob(ctx context.Context, root, pattern string) ([]types.Node, error) {
	return f.provider.Glob(ctx, root, pattern)
}

func (f *FileSystem) OpenWith(ctx context.Context, path string) (string, error) {
	return f.provider.OpenWith(ctx, path)
}

func (f *FileSystem) MIMEType(ctx context.Context, path string) (string, error) {
	return f.provider.MIMEType(ctx, path)
}

func (f *FileSystem) Tree(ctx context.Context, root string) (*filesystem.Tree, error) {
	return f.provider.Tree(ctx, root)
}

func (f *FileSystem) Export(ctx context.Context, root, format string) ([]byte, error) {
	return f.provider.Export(ctx, root, format)
}

func (f *FileSystem) Archive(ctx context.Context, root string, w io.Writer, compression string) (int, error) {
	return f.provider.Archive(ctx, root, w, compression)
}

func (f *FileSystem) Extract(ctx context.Context, r io.Reader, dest, compression string) (int, error) {
	return f.provider.Extract(ctx, r, dest, compression)
}

var _ filesystem.Operations = (*FileSystem)(nil)
