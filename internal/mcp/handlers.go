// ABOUTME: MCP tool handler implementations for the coach server
// ABOUTME: Argument validation errors become tool errors, never transport errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/coach-standalone/internal/core"
	"github.com/harper/coach-standalone/internal/models"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service  *core.CoachService
	profiles *sqlite.ProfileStore
}

// IngestMessage handles the ingest_message tool
func (h *Handlers) IngestMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}
	senderID, err := request.RequireString("sender_id")
	if err != nil {
		return mcp.NewToolResultError("sender_id argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	msg, err := h.service.IngestMessage(ctx, conversationID, senderID, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	response := map[string]interface{}{"skipped": msg == nil}
	if msg != nil {
		response["message_id"] = msg.ID
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// StartCoachChat handles the start_coach_chat tool
func (h *Handlers) StartCoachChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	parentID, err := request.RequireString("parent_conversation_id")
	if err != nil {
		return mcp.NewToolResultError("parent_conversation_id argument is required and must be a string"), nil
	}

	coachID, err := h.service.StartCoachChat(ctx, userID, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start coach chat: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"coach_conversation_id": coachID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// Analyze handles the analyze tool
func (h *Handlers) Analyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindStr, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind argument is required and must be a string"), nil
	}
	coachID, err := request.RequireString("coach_conversation_id")
	if err != nil {
		return mcp.NewToolResultError("coach_conversation_id argument is required and must be a string"), nil
	}
	parentID, err := request.RequireString("parent_conversation_id")
	if err != nil {
		return mcp.NewToolResultError("parent_conversation_id argument is required and must be a string"), nil
	}

	kind, err := core.ParseAnalysisKind(kindStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reply, err := h.service.Analyze(ctx, kind, coachID, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"ok":    true,
		"reply": reply,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetCoachHistory handles the get_coach_history tool
func (h *Handlers) GetCoachHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	coachID, err := request.RequireString("coach_conversation_id")
	if err != nil {
		return mcp.NewToolResultError("coach_conversation_id argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 0)

	history, err := h.service.GetCoachHistory(coachID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read coach history: %v", err)), nil
	}

	messages := make([]map[string]interface{}, 0, len(history))
	for _, m := range history {
		messages = append(messages, map[string]interface{}{
			"id":         m.ID,
			"sender_id":  m.SenderID,
			"text":       m.Text,
			"created_at": m.CreatedAt.Format(time.RFC3339),
		})
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"messages": messages,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SetProfile handles the set_profile tool
func (h *Handlers) SetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	profile := &models.UserProfile{
		UserID:    userID,
		Name:      request.GetString("name", ""),
		PartnerID: request.GetString("partner_id", ""),
	}

	if err := h.profiles.Save(profile); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save profile: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"ok": true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
