// ABOUTME: Ingestion pipeline: embed + classify a new message, upsert into the index
// ABOUTME: Embedding and classification run concurrently and join before the write
package core

import (
	"context"
	"fmt"

	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/models"
)

// Ingestor computes embeddings and classifications for new messages and
// writes them to the vector index.
type Ingestor struct {
	embedder   Embedder
	classifier Classifier
	idx        index.Index
}

// NewIngestor creates an Ingestor with explicit collaborators
func NewIngestor(embedder Embedder, classifier Classifier, idx index.Index) *Ingestor {
	return &Ingestor{
		embedder:   embedder,
		classifier: classifier,
		idx:        idx,
	}
}

// Ingest processes one newly appended message. Messages with empty text are
// skipped entirely (nothing to embed or classify). Embedding failure is a
// hard error and the message is not indexed; the caller may retry. The
// classifier cannot fail (it degrades to neutral), so classification never
// blocks ingestion. Upsert is idempotent by message id.
func (in *Ingestor) Ingest(ctx context.Context, msg *models.Message) error {
	if msg == nil || msg.IsEmpty() {
		return nil
	}

	// Classification is independent of embedding; run it concurrently and
	// join both before the single index write.
	classCh := make(chan models.Classification, 1)
	go func() {
		classCh <- in.classifier.Classify(ctx, msg.Text)
	}()

	vector, err := in.embedder.GenerateEmbedding(ctx, msg.Text)
	class := <-classCh
	if err != nil {
		return fmt.Errorf("failed to embed message %s: %w", msg.ID, err)
	}

	entry := index.Entry{
		ID:     msg.ID,
		Vector: vector,
		Metadata: index.Metadata{
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			CreatedAt:      msg.CreatedAt,
			Text:           msg.Text,
			Sentiment:      class.Sentiment,
			Horseman:       class.Horseman,
		},
	}

	if err := in.idx.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("failed to index message %s: %w", msg.ID, err)
	}

	return nil
}
