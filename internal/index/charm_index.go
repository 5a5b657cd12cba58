// ABOUTME: Charm KV backed vector index with cosine similarity ranking
// ABOUTME: Stores one JSON entry per message under a per-conversation key prefix
package index

import (
	"context"
	"fmt"

	"github.com/harper/coach-standalone/internal/charm"
)

// CharmIndex stores indexed messages in Charm KV for cloud-synced storage
type CharmIndex struct {
	charm     *charm.Client
	dimension int
}

// NewCharmIndex creates a CharmIndex enforcing the given vector dimension
func NewCharmIndex(charmClient *charm.Client, dimension int) *CharmIndex {
	return &CharmIndex{
		charm:     charmClient,
		dimension: dimension,
	}
}

// Upsert writes an entry keyed by message id; re-ingestion overwrites by id
func (ci *CharmIndex) Upsert(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry id cannot be empty")
	}
	if entry.Metadata.ConversationID == "" {
		return fmt.Errorf("entry conversation id cannot be empty")
	}
	if len(entry.Vector) != ci.dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ci.dimension, len(entry.Vector))
	}

	key := charm.VectorKey(entry.Metadata.ConversationID, entry.ID)
	return ci.charm.SetJSON(key, entry)
}

// Query loads all entries for the conversation and ranks them locally.
// The KV store has no server-side similarity search, so ranking happens here.
func (ci *CharmIndex) Query(ctx context.Context, conversationID string, topK int, probe []float64) ([]Match, error) {
	keys, err := ci.charm.ListKeys(charm.ConversationPrefix(conversationID))
	if err != nil {
		return nil, fmt.Errorf("failed to list vector keys: %w", err)
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		var entry Entry
		if err := ci.charm.GetJSON(key, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return rank(entries, topK, probe), nil
}
