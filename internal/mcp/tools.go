// ABOUTME: MCP tool definitions and registration for the coach server
// ABOUTME: Exposes the analytics pipeline as RPC-style callable tools
package mcp

import (
	"github.com/harper/coach-standalone/internal/core"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, service *core.CoachService, profiles *sqlite.ProfileStore) *Handlers {
	handlers := &Handlers{
		service:  service,
		profiles: profiles,
	}

	// 1. ingest_message - append a message and run the ingestion pipeline
	server.AddTool(mcp.Tool{
		Name:        "ingest_message",
		Description: "Append a chat message to a conversation and index it for analysis. Empty text is skipped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation the message belongs to",
				},
				"sender_id": map[string]interface{}{
					"type":        "string",
					"description": "Sender of the message",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Message text",
				},
			},
			Required: []string{"conversation_id", "sender_id", "text"},
		},
	}, handlers.IngestMessage)

	// 2. start_coach_chat - idempotent coach conversation creation
	server.AddTool(mcp.Tool{
		Name:        "start_coach_chat",
		Description: "Get or create the coach conversation for a user and parent conversation. Creation is idempotent; the first call sends a greeting.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User requesting coaching",
				},
				"parent_conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "The real conversation to coach on",
				},
			},
			Required: []string{"user_id", "parent_conversation_id"},
		},
	}, handlers.StartCoachChat)

	// 3. analyze - run one analysis and append the coach reply
	server.AddTool(mcp.Tool{
		Name:        "analyze",
		Description: "Run an analysis over the parent conversation and post the result to the coach chat. Kinds: ratio, horsemen, lovemap, shared_interests, bids, rupture_repair, topic_champion (group only), energy (group only), checkin (platonic only).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Analysis kind to run",
				},
				"coach_conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Coach conversation to post the reply into",
				},
				"parent_conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to analyze",
				},
			},
			Required: []string{"kind", "coach_conversation_id", "parent_conversation_id"},
		},
	}, handlers.Analyze)

	// 4. get_coach_history - read the coach conversation transcript
	server.AddTool(mcp.Tool{
		Name:        "get_coach_history",
		Description: "Read the coach conversation transcript oldest-to-newest.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"coach_conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Coach conversation to read",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of messages to return (default: all)",
					"default":     0,
				},
			},
			Required: []string{"coach_conversation_id"},
		},
	}, handlers.GetCoachHistory)

	// 5. set_profile - store partner links for relationship classification
	server.AddTool(mcp.Tool{
		Name:        "set_profile",
		Description: "Store a user profile. Mutual partner links make a two-person conversation romantic; without them it is platonic.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User the profile belongs to",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name",
				},
				"partner_id": map[string]interface{}{
					"type":        "string",
					"description": "User id of this user's partner, if any",
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.SetProfile)

	return handlers
}
