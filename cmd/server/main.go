// ABOUTME: Main entry point for the coach MCP server with stdio transport
// ABOUTME: Wires config, stores, the vector index, and the LLM adapter
package main

import (
	"log"

	"github.com/harper/coach-standalone/internal/charm"
	"github.com/harper/coach-standalone/internal/config"
	"github.com/harper/coach-standalone/internal/core"
	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/mcp"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required: embeddings and coach replies cannot run without it")
	}

	db, err := sqlite.Open(sqlite.DefaultDBPath())
	if err != nil {
		log.Fatalf("Failed to open message store: %v", err)
	}
	defer func() { _ = db.Close() }()

	messages := sqlite.NewMessageStore(db)
	conversations := sqlite.NewConversationStore(db)
	profiles := sqlite.NewProfileStore(db)

	// Charm KV backs the vector index; fall back to an in-process index when
	// it is unreachable so the server still comes up for local use.
	var idx index.Index
	charmClient, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		log.Printf("Warning: charm kv unavailable, using in-process index: %v", err)
		idx = index.NewMemoryIndex()
	} else {
		defer func() { _ = charmClient.Close() }()
		idx = index.NewCharmIndex(charmClient, cfg.VectorDimension)
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	service := core.NewCoachService(
		messages, conversations, profiles, idx,
		core.NewIngestor(client, client, idx),
		core.NewTopicEngine(client, idx),
		core.NewSynthesizer(client, cfg.WordLimit),
		cfg,
	)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Coach Analytics",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, service, profiles)

	// Start server with stdio transport
	log.Println("Coach MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
