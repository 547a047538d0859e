package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/types"
)

// SlotKey is the key the whole node table is stored under in a blob slot
const SlotKey = "osfs"

// BlobStore keeps every node in memory and mirrors the full table into a
// single file after each mutation. An empty slot path keeps it memory only.
type BlobStore struct {
	slot   string
	nodes  map[string]*types.Node
	logger *logging.Logger
	mu     sync.RWMutex
}

// OpenBlob loads the slot eagerly. A missing slot starts empty; a corrupt
// one is logged and treated as empty.
func OpenBlob(slot string, logger *logging.Logger) (*BlobStore, error) {
	b := &BlobStore{
		slot:   slot,
		nodes:  make(map[string]*types.Node),
		logger: logging.OrNop(logger).Named(BackendBlob),
	}
	if slot == "" {
		return b, nil
	}

	data, err := os.ReadFile(slot)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blob slot: %w", err)
	}

	var table map[string]map[string]*types.Node
	if err := sonic.Unmarshal(data, &table); err != nil {
		b.logger.Warn("discarding corrupt blob slot", zap.String("slot", slot), zap.Error(err))
		return b, nil
	}
	for path, node := range table[SlotKey] {
		if node == nil {
			continue
		}
		if node.IsFolder() && node.Children == nil {
			node.Children = []string{}
		}
		b.nodes[path] = node
	}
	b.logger.Debug("loaded blob slot", zap.String("slot", slot), zap.Int("nodes", len(b.nodes)))
	return b, nil
}

func (b *BlobStore) Get(_ context.Context, path string) (*types.Node, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nodes[path].Clone(), nil
}

func (b *BlobStore) Put(_ context.Context, node *types.Node) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[node.Path] = node.Clone()
	return b.save()
}

func (b *BlobStore) Remove(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.nodes[path]; !ok {
		return nil
	}
	delete(b.nodes, path)
	return b.save()
}

func (b *BlobStore) Kind() string {
	return BackendBlob
}

// Close is a no-op; every mutation is already on disk.
func (b *BlobStore) Close() error {
	return nil
}

// Len reports the number of stored nodes
func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.nodes)
}

// save writes the table to a temp file beside the slot and renames it over
// the slot. Caller holds mu.
func (b *BlobStore) save() error {
	if b.slot == "" {
		return nil
	}
	data, err := sonic.Marshal(map[string]map[string]*types.Node{SlotKey: b.nodes})
	if err != nil {
		return fmt.Errorf("encode blob slot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.slot), filepath.Base(b.slot)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save blob slot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save blob slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save blob slot: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.slot); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save blob slot: %w", err)
	}
	return nil
}
