// ABOUTME: Shared test fakes for the pipeline: embedder, classifier, completer
// ABOUTME: Deterministic collaborators so tests never touch the network
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/models"
)

// fakeEmbedder returns canned vectors by text, or a default vector when the
// text is unmapped. Set err to force hard embedding failures.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	err     error
	calls   int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClassifier returns canned classifications by text; unmapped text
// degrades to neutral, mirroring the production contract.
type fakeClassifier struct {
	mu     sync.Mutex
	labels map[string]models.Classification
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) models.Classification {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if c, ok := f.labels[text]; ok {
		return c
	}
	return models.NeutralClassification()
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCompleter records the last prompt and returns a canned reply or error
type fakeCompleter struct {
	reply      string
	err        error
	lastPrompt []llm.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.lastPrompt = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// promptText flattens a recorded prompt for substring assertions
func promptText(messages []llm.Message) string {
	var out string
	for _, m := range messages {
		out += fmt.Sprintf("[%s] %s\n", m.Role, m.Content)
	}
	return out
}
