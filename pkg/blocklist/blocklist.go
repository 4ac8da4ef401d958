package blocklist

import (
	"sort"
	"sync"
)

// BlockList is the set of source identifiers currently under mitigation.
// It is shared between all sources and the responder, so every mutation
// takes the write lock. Entries are never evicted during a run; expiry
// for temporarily blocked identifiers is an open extension point.
type BlockList struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// New returns an empty block list.
func New() *BlockList {
	return &BlockList{ids: make(map[string]struct{})}
}

// Add inserts an identifier into the list. Adding an identifier that is
// already present is a no-op. It returns true if the identifier was newly
// inserted.
func (b *BlockList) Add(identifier string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.ids[identifier]; exists {
		return false
	}
	b.ids[identifier] = struct{}{}
	return true
}

// Contains reports whether the identifier is currently blocked.
func (b *BlockList) Contains(identifier string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.ids[identifier]
	return exists
}

// Len returns the number of blocked identifiers.
func (b *BlockList) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.ids)
}

// Snapshot returns a sorted copy of all blocked identifiers.
func (b *BlockList) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make([]string, 0, len(b.ids))
	for id := range b.ids {
		snapshot = append(snapshot, id)
	}
	sort.Strings(snapshot)
	return snapshot
}
