package filesystem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
	"github.com/nyxos/backend/internal/storage"
)

var (
	// ErrParentMissing is returned in strict mode when a write targets a
	// path whose parent is absent or is not a folder.
	ErrParentMissing = errors.New("parent folder missing")
	// ErrNotFound is returned in strict mode by metadata updates on a
	// missing node.
	ErrNotFound = errors.New("node not found")
	// ErrNotFile is returned in strict mode by file-only updates on a folder.
	ErrNotFile = errors.New("not a file")
	// ErrInvalidMove is returned when the destination lies inside the source.
	ErrInvalidMove = errors.New("cannot move a folder into itself")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("filesystem closed")
	// ErrUnknownFormat is returned for an unsupported export format or
	// archive compression.
	ErrUnknownFormat = errors.New("unsupported format")
)

// Provider maintains the node tree in a store
type Provider struct {
	store  storage.Store
	opts   Options
	logger *logging.Logger

	jobs    chan job
	quit    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	once    sync.Once
}

// New starts a provider over store. The provider owns the store from here
// on and closes it in Close.
func New(store storage.Store, opts Options) *Provider {
	opts = opts.withDefaults()
	p := &Provider{
		store:   store,
		opts:    opts,
		logger:  opts.Logger,
		jobs:    make(chan job),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.writer()
	return p
}

// Backend names the underlying store
func (p *Provider) Backend() string {
	return p.store.Kind()
}

// Close stops the writer after the running job and closes the store
func (p *Provider) Close() error {
	var err error
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.quit)
		<-p.stopped
		err = p.store.Close()
	})
	return err
}

// Init ensures the root and the standard folders exist and that the root
// lists them. An existing root is extended, never replaced.
func (p *Provider) Init(ctx context.Context) (err error) {
	defer p.observe("init", time.Now(), &err)
	return p.submit(ctx, p.init)
}

func (p *Provider) init(ctx context.Context) error {
	now := p.opts.Clock()

	root, err := p.get(ctx, paths.Root)
	if err != nil {
		return err
	}
	changed := false
	if !root.IsFolder() {
		root = types.NewFolder(paths.Root, "", nil, now)
		changed = true
	}

	for _, dir := range paths.StandardFolders {
		node, err := p.get(ctx, dir)
		if err != nil {
			return err
		}
		if node == nil {
			if err := p.put(ctx, types.NewFolder(dir, paths.Base(dir), nil, now)); err != nil {
				return err
			}
			p.logger.Debug("created standard folder", zap.String("path", dir))
		}
		if !root.HasChild(dir) {
			root.Children = append(root.Children, dir)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	root.MTime = now
	return p.put(ctx, root)
}

// List returns the children of the folder at path in listed order. A
// missing path or a file lists as empty; stale child entries are skipped.
func (p *Provider) List(ctx context.Context, path string) (nodes []types.Node, err error) {
	defer p.observe("list", time.Now(), &err)
	if p.closed.Load() {
		return nil, ErrClosed
	}

	folder, err := p.get(ctx, paths.Clean(path))
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return []types.Node{}, nil
	}

	resolved := make([]*types.Node, len(folder.Children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.ListConcurrency)
	for i, child := range folder.Children {
		i, child := i, child
		g.Go(func() error {
			node, err := p.get(gctx, child)
			if err != nil {
				return err
			}
			resolved[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nodes = make([]types.Node, 0, len(resolved))
	for i, node := range resolved {
		if node == nil {
			p.logger.Debug("skipping stale child", zap.String("folder", folder.Path), zap.String("child", folder.Children[i]))
			continue
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// ReadFile returns the content of the file at path. ok is false when the
// path is missing or is a folder.
func (p *Provider) ReadFile(ctx context.Context, path string) (content string, ok bool, err error) {
	defer p.observe("read", time.Now(), &err)
	if p.closed.Load() {
		return "", false, ErrClosed
	}

	node, err := p.get(ctx, paths.Clean(path))
	if err != nil || !node.IsFile() {
		return "", false, err
	}
	return node.Content, true, nil
}

// Stat returns a snapshot of the node at path, or nil
func (p *Provider) Stat(ctx context.Context, path string) (node *types.Node, err error) {
	defer p.observe("stat", time.Now(), &err)
	if p.closed.Load() {
		return nil, ErrClosed
	}
	return p.get(ctx, paths.Clean(path))
}

// Exists reports whether a node exists at path
func (p *Provider) Exists(ctx context.Context, path string) (bool, error) {
	node, err := p.Stat(ctx, path)
	return node != nil, err
}

func (p *Provider) get(ctx context.Context, path string) (*types.Node, error) {
	node, err := p.store.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("filesystem: %w", err)
	}
	return node, nil
}

func (p *Provider) put(ctx context.Context, node *types.Node) error {
	if err := p.store.Put(ctx, node); err != nil {
		return fmt.Errorf("filesystem: %w", err)
	}
	return nil
}

func (p *Provider) remove(ctx context.Context, path string) error {
	if err := p.store.Remove(ctx, path); err != nil {
		return fmt.Errorf("filesystem: %w", err)
	}
	return nil
}

func (p *Provider) observe(op string, start time.Time, err *error) {
	if p.opts.Observer != nil {
		p.opts.Observer.RecordFSOperation(op, *err, time.Since(start))
	}
}
