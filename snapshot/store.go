// Package snapshot holds the panel's in-memory picture of the fleet: the
// node map and the file list, each replaced wholesale by the poller and
// read concurrently by the renderer and dispatcher.
package snapshot

import "sync"

// NodeStore maps node id to its last known NodeInfo. Replace swaps the
// whole map under the lock, so readers holding a map returned by All never
// see a mix of two snapshots.
type NodeStore struct {
	mu    sync.RWMutex
	nodes map[string]NodeInfo
}

func NewNodeStore() *NodeStore {
	return &NodeStore{nodes: make(map[string]NodeInfo)}
}

// Replace installs a new snapshot. The store takes ownership of m; callers
// must not mutate it afterwards.
func (s *NodeStore) Replace(m map[string]NodeInfo) {
	if m == nil {
		m = make(map[string]NodeInfo)
	}
	s.mu.Lock()
	s.nodes = m
	s.mu.Unlock()
}

// Get returns the info for one node and whether it is present.
func (s *NodeStore) Get(id string) (NodeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.nodes[id]
	return info, ok
}

// All returns the current snapshot map. It is a read-only view: callers
// must not mutate it, and a later Replace does not affect it.
func (s *NodeStore) All() map[string]NodeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes
}

// Len returns the number of nodes in the current snapshot.
func (s *NodeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// FileStore holds the latest file listing, replaced wholesale on each poll.
type FileStore struct {
	mu    sync.RWMutex
	files []FileEntry
}

func NewFileStore() *FileStore {
	return &FileStore{}
}

func (s *FileStore) Replace(files []FileEntry) {
	s.mu.Lock()
	s.files = files
	s.mu.Unlock()
}

// List returns the current file listing. Read-only view, same contract as
// NodeStore.All.
func (s *FileStore) List() []FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files
}
