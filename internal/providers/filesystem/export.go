package filesystem

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Tree is a nested view of a subtree with children inlined
type Tree struct {
	Type     types.NodeType `json:"type" yaml:"type" toml:"type"`
	Name     string         `json:"name" yaml:"name" toml:"name"`
	Path     string         `json:"path" yaml:"path" toml:"path"`
	MTime    time.Time      `json:"mtime" yaml:"mtime" toml:"mtime"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Preview  string         `json:"preview,omitempty" yaml:"preview,omitempty" toml:"preview,omitempty"`
	AssocApp string         `json:"assocApp,omitempty" yaml:"assocApp,omitempty" toml:"assocApp,omitempty"`
	Content  string         `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Children []*Tree        `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Tree builds the nested view of the subtree at root, or nil when root is
// missing
func (p *Provider) Tree(ctx context.Context, root string) (*Tree, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	nodes, err := p.subtree(ctx, paths.Clean(root))
	if err != nil || len(nodes) == 0 {
		return nil, err
	}

	byPath := make(map[string]*Tree, len(nodes))
	for _, n := range nodes {
		byPath[n.Path] = &Tree{
			Type:     n.Type,
			Name:     n.Name,
			Path:     n.Path,
			MTime:    n.MTime,
			Tags:     n.Tags,
			Preview:  n.Preview,
			AssocApp: n.AssocApp,
			Content:  n.Content,
		}
	}
	for _, n := range nodes {
		parent := byPath[n.Path]
		for _, c := range n.Children {
			if child, ok := byPath[c]; ok {
				parent.Children = append(parent.Children, child)
			}
		}
	}
	return byPath[nodes[0].Path], nil
}

// Export encodes the subtree at root in the given format
func (p *Provider) Export(ctx context.Context, root, format string) (data []byte, err error) {
	defer p.observe("export", time.Now(), &err)
	tree, err := p.Tree(ctx, root)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("export %s: %w", root, ErrNotFound)
	}
	return Encode(tree, format)
}

// Encode serializes v as json, yaml or toml
func Encode(v interface{}, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return sonic.ConfigStd.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatTOML:
		return toml.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Decode parses structured text in json, yaml or toml
func Decode(data []byte, format string) (interface{}, error) {
	var parsed interface{}
	var err error
	switch format {
	case FormatJSON, "":
		err = sonic.Unmarshal(data, &parsed)
	case FormatYAML:
		err = yaml.Unmarshal(data, &parsed)
	case FormatTOML:
		var table map[string]interface{}
		err = toml.Unmarshal(data, &table)
		parsed = table
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	return parsed, nil
}
