package filesystem

import (
	"context"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// Search walks the subtree under root and returns every descendant whose
// name or one of whose tags contains query (case-insensitive), or whose
// path matches query as a glob ("/Users/**/*.txt"). Results are in
// pre-order.
func (p *Provider) Search(ctx context.Context, root, query string) (found []types.Node, err error) {
	defer p.observe("search", time.Now(), &err)
	if p.closed.Load() {
		return nil, ErrClosed
	}

	nodes, err := p.subtree(ctx, paths.Clean(root))
	if err != nil {
		return nil, err
	}

	found = []types.Node{}
	needle := strings.ToLower(query)
	for i, node := range nodes {
		if i == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if matches(node, needle, query) {
			found = append(found, *node)
		}
	}
	return found, nil
}

// Glob returns every descendant of root whose absolute path matches pattern
func (p *Provider) Glob(ctx context.Context, root, pattern string) (found []types.Node, err error) {
	defer p.observe("glob", time.Now(), &err)
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	nodes, err := p.subtree(ctx, paths.Clean(root))
	if err != nil {
		return nil, err
	}

	found = []types.Node{}
	for i, node := range nodes {
		if i == 0 {
			continue
		}
		if ok, _ := doublestar.Match(pattern, node.Path); ok {
			found = append(found, *node)
		}
	}
	return found, nil
}

func matches(node *types.Node, needle, pattern string) bool {
	if strings.Contains(strings.ToLower(node.Name), needle) {
		return true
	}
	for _, tag := range node.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	ok, _ := doublestar.Match(pattern, node.Path)
	return ok
}
