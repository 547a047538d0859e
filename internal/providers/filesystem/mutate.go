package filesystem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// WriteFile creates or overwrites the node at path as a file. Whatever
// occupied the path before is replaced wholesale, tags, preview and
// association included. The parent must already be a folder.
func (p *Provider) WriteFile(ctx context.Context, path, content string) (err error) {
	defer p.observe("write", time.Now(), &err)
	path = paths.Clean(path)
	return p.submit(ctx, func(ctx context.Context) error {
		return p.writeFile(ctx, path, content)
	})
}

// Mkdir creates an empty folder at path, replacing any node there. On the
// root it only creates the root when it is missing.
func (p *Provider) Mkdir(ctx context.Context, path string) (err error) {
	defer p.observe("mkdir", time.Now(), &err)
	path = paths.Clean(path)
	return p.submit(ctx, func(ctx context.Context) error {
		return p.mkdir(ctx, path)
	})
}

// Delete removes the node at path and, for a folder, everything beneath
// it, then unlinks it from its parent
func (p *Provider) Delete(ctx context.Context, path string) (err error) {
	defer p.observe("delete", time.Now(), &err)
	path = paths.Clean(path)
	return p.submit(ctx, func(ctx context.Context) error {
		return p.delete(ctx, path)
	})
}

// Move relocates src to dest by deleting src and recreating its subtree at
// dest. Only content and structure survive unless
// Options.PreserveMetadataOnMove is set. Under ParentsSilent a missing
// destination parent loses src; ParentsStrict refuses the move up front.
func (p *Provider) Move(ctx context.Context, src, dest string) (err error) {
	defer p.observe("move", time.Now(), &err)
	src, dest = paths.Clean(src), paths.Clean(dest)
	return p.submit(ctx, func(ctx context.Context) error {
		return p.move(ctx, src, dest)
	})
}

// Rename is Move
func (p *Provider) Rename(ctx context.Context, oldPath, newPath string) error {
	return p.Move(ctx, oldPath, newPath)
}

func (p *Provider) writeFile(ctx context.Context, path, content string) error {
	if paths.IsRoot(path) {
		return nil
	}
	return p.create(ctx, types.NewFile(path, paths.Base(path), content, p.opts.Clock()))
}

func (p *Provider) mkdir(ctx context.Context, path string) error {
	now := p.opts.Clock()
	if paths.IsRoot(path) {
		root, err := p.get(ctx, path)
		if err != nil || root.IsFolder() {
			return err
		}
		return p.put(ctx, types.NewFolder(path, "", nil, now))
	}
	return p.create(ctx, types.NewFolder(path, paths.Base(path), nil, now))
}

// create stores node and links it into its parent folder
func (p *Provider) create(ctx context.Context, node *types.Node) error {
	parent, err := p.get(ctx, paths.Parent(node.Path))
	if err != nil {
		return err
	}
	if !parent.IsFolder() {
		return p.parentMissing(node.Path)
	}

	if err := p.put(ctx, node); err != nil {
		return err
	}

	if !parent.HasChild(node.Path) {
		parent.Children = append(parent.Children, node.Path)
	}
	parent.MTime = node.MTime
	return p.put(ctx, parent)
}

func (p *Provider) parentMissing(path string) error {
	if p.opts.Parents == ParentsStrict {
		return fmt.Errorf("%s: %w", path, ErrParentMissing)
	}
	p.logger.Debug("dropping write under missing parent", zap.String("path", path))
	return nil
}

func (p *Provider) delete(ctx context.Context, path string) error {
	order, err := p.subtree(ctx, path)
	if err != nil || len(order) == 0 {
		return err
	}

	// pre-order reversed: every node goes after its descendants
	for i := len(order) - 1; i >= 0; i-- {
		if err := p.remove(ctx, order[i].Path); err != nil {
			return err
		}
	}

	if paths.IsRoot(path) {
		return nil
	}
	return p.unlink(ctx, path)
}

// unlink drops path from its parent's children
func (p *Provider) unlink(ctx context.Context, path string) error {
	parent, err := p.get(ctx, paths.Parent(path))
	if err != nil || !parent.IsFolder() {
		return err
	}
	kept := parent.Children[:0]
	for _, c := range parent.Children {
		if c != path {
			kept = append(kept, c)
		}
	}
	parent.Children = kept
	parent.MTime = p.opts.Clock()
	return p.put(ctx, parent)
}

// subtree returns the node at path and every reachable descendant in
// pre-order. Stale child entries, entries that are not direct children and
// repeated paths are skipped.
func (p *Provider) subtree(ctx context.Context, path string) ([]*types.Node, error) {
	var order []*types.Node
	seen := map[string]bool{}
	stack := []string{path}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		node, err := p.get(ctx, cur)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		order = append(order, node)

		for i := len(node.Children) - 1; i >= 0; i-- {
			if child := node.Children[i]; paths.Parent(child) == node.Path && child != node.Path {
				stack = append(stack, child)
			}
		}
	}
	return order, nil
}

type relocation struct {
	node *types.Node
	dest string
}

func (p *Provider) move(ctx context.Context, src, dest string) error {
	if src == dest {
		return nil
	}
	if paths.IsRoot(src) || strings.HasPrefix(dest, src+"/") {
		return fmt.Errorf("%s -> %s: %w", src, dest, ErrInvalidMove)
	}

	snapshot, err := p.subtree(ctx, src)
	if err != nil || len(snapshot) == 0 {
		return err
	}

	if p.opts.Parents == ParentsStrict {
		parent, err := p.get(ctx, paths.Parent(dest))
		if err != nil {
			return err
		}
		if !parent.IsFolder() {
			return p.parentMissing(dest)
		}
	}

	byPath := make(map[string]*types.Node, len(snapshot))
	for _, n := range snapshot {
		byPath[n.Path] = n
	}

	if err := p.delete(ctx, src); err != nil {
		return err
	}

	// breadth first so every folder exists before its children
	queue := []relocation{{node: snapshot[0], dest: dest}}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		if err := p.create(ctx, p.cloneForDestination(r.node, r.dest)); err != nil {
			return err
		}
		for _, child := range r.node.Children {
			if n, ok := byPath[child]; ok {
				queue = append(queue, relocation{node: n, dest: paths.Join(r.dest, paths.Base(child))})
			}
		}
	}

	p.logger.Debug("moved", zap.String("src", src), zap.String("dest", dest), zap.Int("nodes", len(snapshot)))
	return nil
}

// cloneForDestination builds the node recreated at dest for a moved node.
// Folders start empty and are refilled as their children are moved.
func (p *Provider) cloneForDestination(src *types.Node, dest string) *types.Node {
	now := p.opts.Clock()

	var node *types.Node
	if src.IsFolder() {
		node = types.NewFolder(dest, paths.Base(dest), nil, now)
	} else {
		node = types.NewFile(dest, paths.Base(dest), src.Content, now)
	}

	if p.opts.PreserveMetadataOnMove {
		if src.Tags != nil {
			node.Tags = append([]string(nil), src.Tags...)
		}
		node.Preview = src.Preview
		if src.IsFile() {
			node.AssocApp = src.AssocApp
		}
	}
	return node
}
