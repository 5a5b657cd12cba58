// ABOUTME: Topic affinity engine: similarity-weighted sentiment scoring per topic
// ABOUTME: Selection policies sample from the extremes to vary repeated suggestions
package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/models"
)

// ErrInsufficientData signals a conversation too small (or too sparse in
// usable vectors) for a meaningful analysis. Callers surface a friendly
// "keep chatting" message instead of a score.
var ErrInsufficientData = errors.New("insufficient data for analysis")

// supportFloor is the cosine similarity above which a message counts as
// supporting a topic.
const supportFloor = 0.3

// sampleWidth bounds the slice of extreme-scored topics that selection
// policies sample from.
const sampleWidth = 3

// TopicEngine scores candidate topic phrases against a conversation's
// indexed message vectors.
type TopicEngine struct {
	embedder Embedder
	idx      index.Index

	// sample picks a random offset; overridable in tests
	sample func(n int) int
}

// NewTopicEngine creates a TopicEngine with explicit collaborators
func NewTopicEngine(embedder Embedder, idx index.Index) *TopicEngine {
	return &TopicEngine{
		embedder: embedder,
		idx:      idx,
		sample:   rand.IntN,
	}
}

// ScoreTopics embeds each candidate topic (concurrently; topics are
// independent) and scores it against up to budget retrieved messages for the
// conversation. Retrieval uses recency rather than topic-conditioned search;
// the per-topic cosine weighting happens locally. Returns
// ErrInsufficientData when no retrieved message carries a usable vector.
func (te *TopicEngine) ScoreTopics(ctx context.Context, topics []string, conversationID string, budget int) ([]models.TopicScore, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("topic list cannot be empty")
	}

	matches, err := te.idx.Query(ctx, conversationID, budget, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	usable := matches[:0]
	for _, m := range matches {
		if len(m.Vector) > 0 {
			usable = append(usable, m)
		}
	}
	if len(usable) == 0 {
		return nil, ErrInsufficientData
	}

	vectors := make([][]float64, len(topics))
	errs := make([]error, len(topics))
	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic string) {
			defer wg.Done()
			vectors[i], errs[i] = te.embedder.GenerateEmbedding(ctx, topic)
		}(i, topic)
	}
	wg.Wait()

	scores := make([]models.TopicScore, 0, len(topics))
	for i, topic := range topics {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to embed topic %q: %w", topic, errs[i])
		}
		scores = append(scores, scoreAgainst(topic, vectors[i], usable))
	}

	return scores, nil
}

// scoreAgainst computes the similarity-weighted sentiment average for one
// topic vector: score = sum(value_i * sim_i) / sum(sim_i). Support counts
// messages whose similarity clears the floor.
func scoreAgainst(topic string, topicVector []float64, matches []index.Match) models.TopicScore {
	var weighted, total float64
	support := 0

	for _, m := range matches {
		sim := index.CosineSimilarity(topicVector, m.Vector)
		weighted += m.Metadata.Sentiment.Value() * sim
		total += sim
		if sim >= supportFloor {
			support++
		}
	}

	score := 0.0
	if total != 0 {
		score = weighted / total
	}

	return models.TopicScore{Topic: topic, Score: score, Support: support}
}

// UnderExplored picks a topic from the least-discussed end: ascending by
// support, then score, sampled uniformly from the bottom slice so repeated
// calls vary their suggestions.
func (te *TopicEngine) UnderExplored(scores []models.TopicScore) (models.TopicScore, error) {
	if len(scores) == 0 {
		return models.TopicScore{}, ErrInsufficientData
	}

	sorted := make([]models.TopicScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Support != sorted[j].Support {
			return sorted[i].Support < sorted[j].Support
		}
		return sorted[i].Score < sorted[j].Score
	})

	width := sampleWidth
	if len(sorted) < width {
		width = len(sorted)
	}
	return sorted[te.sample(width)], nil
}

// PositiveLean picks a topic from the most positively discussed end:
// descending by score, sampled from the top slice.
func (te *TopicEngine) PositiveLean(scores []models.TopicScore) (models.TopicScore, error) {
	if len(scores) == 0 {
		return models.TopicScore{}, ErrInsufficientData
	}

	sorted := make([]models.TopicScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	width := sampleWidth
	if len(sorted) < width {
		width = len(sorted)
	}
	return sorted[te.sample(width)], nil
}

// TopicChampion finds the participant whose messages most support a topic.
// Used by the group-only topic-champion analysis.
func (te *TopicEngine) TopicChampion(ctx context.Context, topic, conversationID string, budget int) (string, int, error) {
	topicVector, err := te.embedder.GenerateEmbedding(ctx, topic)
	if err != nil {
		return "", 0, fmt.Errorf("failed to embed topic %q: %w", topic, err)
	}

	matches, err := te.idx.Query(ctx, conversationID, budget, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	supports := make(map[string]int)
	for _, m := range matches {
		if len(m.Vector) == 0 {
			continue
		}
		if index.CosineSimilarity(topicVector, m.Vector) >= supportFloor {
			supports[m.Metadata.SenderID]++
		}
	}

	if len(supports) == 0 {
		return "", 0, ErrInsufficientData
	}

	// Deterministic winner: highest support, ties broken by sender id.
	senders := make([]string, 0, len(supports))
	for sender := range supports {
		senders = append(senders, sender)
	}
	sort.Strings(senders)

	champion, best := "", -1
	for _, sender := range senders {
		if supports[sender] > best {
			champion, best = sender, supports[sender]
		}
	}

	return champion, best, nil
}
