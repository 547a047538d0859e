package storage

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/nyxos/backend/internal/shared/types"
)

// encodeNode serializes a node record
func encodeNode(node *types.Node) ([]byte, error) {
	data, err := sonic.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode node %s: %w", node.Path, err)
	}
	return data, nil
}

// decodeNode parses a node record and checks its discriminator
func decodeNode(data []byte) (*types.Node, error) {
	var node types.Node
	if err := sonic.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	switch node.Type {
	case types.NodeFile:
	case types.NodeFolder:
		if node.Children == nil {
			node.Children = []string{}
		}
	default:
		return nil, fmt.Errorf("decode node %s: unknown type %q", node.Path, node.Type)
	}
	return &node, nil
}
