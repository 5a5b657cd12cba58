// ABOUTME: Collaborator interfaces consumed by the analytics pipeline
// ABOUTME: Satisfied by llm.OpenAIClient in production and by fakes in tests
package core

import (
	"context"

	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/models"
)

// Embedder turns text into a fixed-dimension vector. Failures are hard errors.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Classifier labels a message. Implementations must degrade to the neutral
// classification instead of failing; there is no error return by design.
type Classifier interface {
	Classify(ctx context.Context, text string) models.Classification
}

// Completer runs a chat completion over an assembled prompt
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}
