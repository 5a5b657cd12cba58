// ABOUTME: Shared service construction for CLI commands
// ABOUTME: Wires config, SQLite stores, the vector index, and the LLM adapter
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/harper/coach-standalone/internal/charm"
	"github.com/harper/coach-standalone/internal/config"
	"github.com/harper/coach-standalone/internal/core"
	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
	openai "github.com/sashabaranov/go-openai"
)

// app bundles the wired components a command needs
type app struct {
	cfg           *config.Config
	db            *sqlite.DB
	charmClient   *charm.Client
	messages      *sqlite.MessageStore
	conversations *sqlite.ConversationStore
	profiles      *sqlite.ProfileStore
	idx           index.Index
	service       *core.CoachService
}

// openApp wires the full service. When requireModel is set, a missing
// OPENAI_API_KEY is an error; otherwise model-backed components stay nil and
// only store-backed operations may be used.
func openApp(requireModel bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.Open(sqlite.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening message store: %w", err)
	}

	a := &app{
		cfg:           cfg,
		db:            db,
		messages:      sqlite.NewMessageStore(db),
		conversations: sqlite.NewConversationStore(db),
		profiles:      sqlite.NewProfileStore(db),
	}

	// Charm KV backs the vector index. When it is unreachable, fall back to
	// an in-process index so store-only commands keep working.
	charmClient, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Warning: charm kv unavailable, using in-process index: %v\n", err)
		}
		a.idx = index.NewMemoryIndex()
	} else {
		a.charmClient = charmClient
		a.idx = index.NewCharmIndex(charmClient, cfg.VectorDimension)
	}

	var (
		ingestor *core.Ingestor
		topics   *core.TopicEngine
		synth    *core.Synthesizer
	)
	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
		ingestor = core.NewIngestor(client, client, a.idx)
		topics = core.NewTopicEngine(client, a.idx)
		synth = core.NewSynthesizer(client, cfg.WordLimit)
	} else if requireModel {
		a.Close()
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	a.service = core.NewCoachService(
		a.messages, a.conversations, a.profiles,
		a.idx, ingestor, topics, synth, cfg,
	)
	return a, nil
}

// Close releases the store and index connections
func (a *app) Close() {
	if a.charmClient != nil {
		_ = a.charmClient.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// commandTimeout bounds one CLI invocation end to end
const commandTimeout = 2 * time.Minute
