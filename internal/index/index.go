// ABOUTME: Vector index contract shared by the charm-backed and in-memory adapters
// ABOUTME: Entries are upserted by message id; queries filter by conversation
package index

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/harper/coach-standalone/internal/models"
)

// Metadata is the tagged record stored alongside each vector. Sentiment and
// Horseman default to neutral/none at parse time, so readers never see an
// unrecognized label.
type Metadata struct {
	ConversationID string           `json:"conversation_id"`
	SenderID       string           `json:"sender_id"`
	CreatedAt      time.Time        `json:"created_at"`
	Text           string           `json:"text"`
	Sentiment      models.Sentiment `json:"sentiment"`
	Horseman       models.Horseman  `json:"horseman"`
}

// Entry is one indexed message: the message id, its embedding, and metadata
type Entry struct {
	ID       string    `json:"id"`
	Vector   []float64 `json:"vector"`
	Metadata Metadata  `json:"metadata"`
}

// Match is a query result with its similarity score
type Match struct {
	Entry
	Score float64 `json:"score"`
}

// Index is the similarity index consumed by the analytics pipeline.
// Upsert is idempotent by entry id. Query returns up to topK entries for the
// conversation: ranked by cosine similarity to probe when probe is non-nil,
// by recency (newest first) otherwise.
type Index interface {
	Upsert(ctx context.Context, entry Entry) error
	Query(ctx context.Context, conversationID string, topK int, probe []float64) ([]Match, error)
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rank orders entries for a query: cosine against probe, or recency when
// probe is nil, truncating to topK. Shared by both adapters.
func rank(entries []Entry, topK int, probe []float64) []Match {
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		score := 0.0
		if probe != nil {
			score = CosineSimilarity(probe, e.Vector)
		}
		matches = append(matches, Match{Entry: e, Score: score})
	}

	if probe != nil {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	} else {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].Metadata.CreatedAt.After(matches[j].Metadata.CreatedAt)
		})
	}

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
