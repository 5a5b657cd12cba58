// ABOUTME: Message and Conversation records for the coach analytics pipeline
// ABOUTME: Messages are append-only; coach replies use the reserved sender id
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CoachSenderID is the reserved sender id for synthesized coach messages.
const CoachSenderID = "coach"

// Message is a single chat message in a conversation timeline.
// Immutable once written; classification lives in the vector index, not here.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is a chat thread. Coach conversations carry IsCoach and a
// pointer to the real ("parent") conversation they analyze.
type Conversation struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	IsCoach       bool      `json:"is_coach"`
	ParentID      string    `json:"parent_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// NewMessage creates a Message with validation
func NewMessage(conversationID, senderID, text string) (*Message, error) {
	if conversationID == "" {
		return nil, errors.New("conversation id cannot be empty")
	}
	if senderID == "" {
		return nil, errors.New("sender id cannot be empty")
	}
	return &Message{
		ID:             GenerateMessageID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsEmpty reports whether the message carries no analyzable text.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == ""
}

// GenerateMessageID generates a unique message identifier
func GenerateMessageID() string {
	return fmt.Sprintf("msg_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// GenerateConversationID generates a unique conversation identifier
func GenerateConversationID() string {
	return fmt.Sprintf("conv_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
