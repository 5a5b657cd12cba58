// ABOUTME: Tests for the topic affinity engine: scoring, selection, guards
// ABOUTME: Uses two-dimensional vectors so similarities are easy to reason about
package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/models"
)

func seedEntry(t *testing.T, idx *index.MemoryIndex, id string, vector []float64, sender string, sentiment models.Sentiment) {
	t.Helper()
	err := idx.Upsert(context.Background(), index.Entry{
		ID:     id,
		Vector: vector,
		Metadata: index.Metadata{
			ConversationID: "c1",
			SenderID:       sender,
			CreatedAt:      time.Now().UTC(),
			Sentiment:      sentiment,
			Horseman:       models.HorsemanNone,
		},
	})
	if err != nil {
		t.Fatalf("Upsert(%s) error = %v", id, err)
	}
}

func TestTopicEngine_InsufficientDataOnEmptyConversation(t *testing.T) {
	engine := NewTopicEngine(&fakeEmbedder{}, index.NewMemoryIndex())

	_, err := engine.ScoreTopics(context.Background(), []string{"travel"}, "c1", 100)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("ScoreTopics() error = %v, want ErrInsufficientData", err)
	}
}

func TestTopicEngine_InsufficientDataWithoutVectors(t *testing.T) {
	idx := index.NewMemoryIndex()
	seedEntry(t, idx, "m1", nil, "alice", models.SentimentPositive)

	engine := NewTopicEngine(&fakeEmbedder{}, idx)

	_, err := engine.ScoreTopics(context.Background(), []string{"travel"}, "c1", 100)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("ScoreTopics() error = %v, want ErrInsufficientData", err)
	}
}

func TestTopicEngine_SimilarityWeightedScore(t *testing.T) {
	idx := index.NewMemoryIndex()
	// m1 aligns exactly with the topic vector; m2 is orthogonal.
	seedEntry(t, idx, "m1", []float64{1, 0}, "alice", models.SentimentPositive)
	seedEntry(t, idx, "m2", []float64{0, 1}, "bob", models.SentimentNegative)

	embedder := &fakeEmbedder{vectors: map[string][]float64{"travel": {1, 0}}}
	engine := NewTopicEngine(embedder, idx)

	scores, err := engine.ScoreTopics(context.Background(), []string{"travel"}, "c1", 100)
	if err != nil {
		t.Fatalf("ScoreTopics() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, want 1", len(scores))
	}

	// score = (+1*1 + -1*0) / (1 + 0) = 1
	got := scores[0]
	if got.Score < 0.99 || got.Score > 1.01 {
		t.Errorf("Score = %f, want 1.0", got.Score)
	}
	if got.Support != 1 {
		t.Errorf("Support = %d, want 1 (only the aligned message clears the floor)", got.Support)
	}
}

func TestTopicEngine_EmbedFailurePropagates(t *testing.T) {
	idx := index.NewMemoryIndex()
	seedEntry(t, idx, "m1", []float64{1, 0}, "alice", models.SentimentPositive)

	engine := NewTopicEngine(&fakeEmbedder{err: errors.New("unavailable")}, idx)

	_, err := engine.ScoreTopics(context.Background(), []string{"travel"}, "c1", 100)
	if err == nil {
		t.Fatal("ScoreTopics() should fail when topic embedding fails")
	}
	if errors.Is(err, ErrInsufficientData) {
		t.Error("embed failure should not be reported as insufficient data")
	}
}

func TestTopicEngine_UnderExploredPicksLowSupport(t *testing.T) {
	engine := NewTopicEngine(&fakeEmbedder{}, index.NewMemoryIndex())
	engine.sample = func(n int) int { return 0 }

	scores := []models.TopicScore{
		{Topic: "work", Score: 0.5, Support: 40},
		{Topic: "travel", Score: 0.2, Support: 1},
		{Topic: "family", Score: 0.8, Support: 25},
	}

	pick, err := engine.UnderExplored(scores)
	if err != nil {
		t.Fatalf("UnderExplored() error = %v", err)
	}
	if pick.Topic != "travel" {
		t.Errorf("UnderExplored() = %q, want travel", pick.Topic)
	}
}

func TestTopicEngine_PositiveLeanPicksHighScore(t *testing.T) {
	engine := NewTopicEngine(&fakeEmbedder{}, index.NewMemoryIndex())
	engine.sample = func(n int) int { return 0 }

	scores := []models.TopicScore{
		{Topic: "work", Score: -0.4, Support: 10},
		{Topic: "travel", Score: 0.9, Support: 12},
		{Topic: "family", Score: 0.1, Support: 8},
	}

	pick, err := engine.PositiveLean(scores)
	if err != nil {
		t.Fatalf("PositiveLean() error = %v", err)
	}
	if pick.Topic != "travel" {
		t.Errorf("PositiveLean() = %q, want travel", pick.Topic)
	}
}

func TestTopicEngine_SelectionSamplesWithinSlice(t *testing.T) {
	engine := NewTopicEngine(&fakeEmbedder{}, index.NewMemoryIndex())

	scores := []models.TopicScore{
		{Topic: "a", Score: 0.1, Support: 1},
		{Topic: "b", Score: 0.2, Support: 2},
		{Topic: "c", Score: 0.3, Support: 3},
		{Topic: "d", Score: 0.9, Support: 50},
	}

	// Whatever the random offset, the pick must come from the bottom three.
	for range 20 {
		pick, err := engine.UnderExplored(scores)
		if err != nil {
			t.Fatalf("UnderExplored() error = %v", err)
		}
		if pick.Topic == "d" {
			t.Fatal("UnderExplored() picked the most-discussed topic")
		}
	}
}

func TestTopicEngine_SelectionEmptyInput(t *testing.T) {
	engine := NewTopicEngine(&fakeEmbedder{}, index.NewMemoryIndex())

	if _, err := engine.UnderExplored(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("UnderExplored(nil) error = %v, want ErrInsufficientData", err)
	}
	if _, err := engine.PositiveLean(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("PositiveLean(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestTopicEngine_TopicChampion(t *testing.T) {
	idx := index.NewMemoryIndex()
	seedEntry(t, idx, "m1", []float64{1, 0}, "alice", models.SentimentPositive)
	seedEntry(t, idx, "m2", []float64{0.9, 0.1}, "alice", models.SentimentPositive)
	seedEntry(t, idx, "m3", []float64{1, 0}, "bob", models.SentimentNeutral)
	seedEntry(t, idx, "m4", []float64{0, 1}, "bob", models.SentimentNegative)

	embedder := &fakeEmbedder{vectors: map[string][]float64{"travel": {1, 0}}}
	engine := NewTopicEngine(embedder, idx)

	champion, support, err := engine.TopicChampion(context.Background(), "travel", "c1", 100)
	if err != nil {
		t.Fatalf("TopicChampion() error = %v", err)
	}
	if champion != "alice" {
		t.Errorf("champion = %q, want alice", champion)
	}
	if support != 2 {
		t.Errorf("support = %d, want 2", support)
	}
}
