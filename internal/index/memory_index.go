// ABOUTME: In-memory vector index for tests and offline use
// ABOUTME: Same contract as CharmIndex without the KV backend
package index

import (
	"context"
	"fmt"
	"sync"
)

// MemoryIndex is a process-local Index implementation
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry // keyed by entry id
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]Entry),
	}
}

// Upsert stores an entry, overwriting any previous entry with the same id
func (mi *MemoryIndex) Upsert(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry id cannot be empty")
	}
	if entry.Metadata.ConversationID == "" {
		return fmt.Errorf("entry conversation id cannot be empty")
	}

	mi.mu.Lock()
	defer mi.mu.Unlock()
	mi.entries[entry.ID] = entry
	return nil
}

// Query filters by conversation id and ranks locally
func (mi *MemoryIndex) Query(ctx context.Context, conversationID string, topK int, probe []float64) ([]Match, error) {
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	var entries []Entry
	for _, e := range mi.entries {
		if e.Metadata.ConversationID == conversationID {
			entries = append(entries, e)
		}
	}

	return rank(entries, topK, probe), nil
}

// Len reports the number of stored entries (for tests)
func (mi *MemoryIndex) Len() int {
	mi.mu.RLock()
	defer mi.mu.RUnlock()
	return len(mi.entries)
}
