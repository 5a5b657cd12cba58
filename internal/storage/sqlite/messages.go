// ABOUTME: Message storage operations for SQLite
// ABOUTME: Append-only log with range reads ordered oldest-to-newest
package sqlite

import (
	"fmt"

	"github.com/harper/coach-standalone/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append writes a message to the log. Messages are never updated; a
// duplicate id is a caller bug and surfaces as a constraint error.
func (s *MessageStore) Append(msg *models.Message) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (id, conversation_id, sender_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.SenderID, msg.Text, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetByConversation returns the most recent `limit` messages of a
// conversation, ordered oldest-to-newest. limit <= 0 returns everything.
func (s *MessageStore) GetByConversation(conversationID string, limit int) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, text, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`
	args := []interface{}{conversationID}

	if limit > 0 {
		// Window over the tail of the log, re-ordered oldest-first.
		query = `
			SELECT id, conversation_id, sender_id, text, created_at FROM (
				SELECT id, conversation_id, sender_id, text, created_at
				FROM messages
				WHERE conversation_id = ?
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			) ORDER BY created_at ASC, id ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// Count returns the total number of messages in a conversation
func (s *MessageStore) Count(conversationID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM messages WHERE conversation_id = ?
	`, conversationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
