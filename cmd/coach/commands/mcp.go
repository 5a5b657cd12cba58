// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to drive the coach pipeline via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/coach-standalone/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Coach as an MCP (Model Context Protocol) server, exposing message
ingestion, coach-chat creation, analysis, and history over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  coach mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "coach": {
  #       "command": "coach",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Coach Analytics",
		"0.1.0",
	)

	mcp.RegisterTools(server, a.service, a.profiles)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Coach MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		a.Close()
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		a.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
