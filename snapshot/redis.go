package snapshot

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	nodesKey = "fleetpanel:snapshot:nodes"
	filesKey = "fleetpanel:snapshot:files"
)

// Mirror persists the last successful snapshot to Redis so a restarted
// panel shows the fleet immediately instead of an empty page until the
// first poll lands. Purely best-effort: the in-memory stores stay
// authoritative and the mirror is skipped when Redis is unavailable.
type Mirror struct {
	client *redis.Client
}

func NewMirror(client *redis.Client) *Mirror {
	return &Mirror{client: client}
}

func (m *Mirror) SaveNodes(ctx context.Context, nodes map[string]NodeInfo) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	return m.client.Set(ctx, nodesKey, data, 0).Err()
}

func (m *Mirror) LoadNodes(ctx context.Context) (map[string]NodeInfo, error) {
	data, err := m.client.Get(ctx, nodesKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var nodes map[string]NodeInfo
	return nodes, json.Unmarshal(data, &nodes)
}

func (m *Mirror) SaveFiles(ctx context.Context, files []FileEntry) error {
	data, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return m.client.Set(ctx, filesKey, data, 0).Err()
}

func (m *Mirror) LoadFiles(ctx context.Context) ([]FileEntry, error) {
	data, err := m.client.Get(ctx, filesKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var files []FileEntry
	return files, json.Unmarshal(data, &files)
}

// Prime fills empty stores from the mirror. Called once at startup, before
// the pollers begin; a store that already has data is left alone.
func (m *Mirror) Prime(ctx context.Context, nodes *NodeStore, files *FileStore) {
	if nodes.Len() == 0 {
		if saved, err := m.LoadNodes(ctx); err == nil && len(saved) > 0 {
			nodes.Replace(saved)
		}
	}
	if len(files.List()) == 0 {
		if saved, err := m.LoadFiles(ctx); err == nil && len(saved) > 0 {
			files.Replace(saved)
		}
	}
}
