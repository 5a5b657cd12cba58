// ABOUTME: Conversation storage operations for SQLite
// ABOUTME: Includes the idempotent coach-conversation creation path
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/coach-standalone/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ConversationStore handles conversation persistence
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Create inserts a conversation
func (s *ConversationStore) Create(conv *models.Conversation) error {
	participantsJSON, err := json.Marshal(conv.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO conversations (id, participants, is_coach, parent_id, created_at, last_message_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, conv.ID, string(participantsJSON), boolToInt(conv.IsCoach), nullableString(conv.ParentID),
		conv.CreatedAt, conv.LastMessageAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// Get retrieves a conversation by id, or ErrNotFound
func (s *ConversationStore) Get(id string) (*models.Conversation, error) {
	row := s.db.QueryRow(`
		SELECT id, participants, is_coach, parent_id, created_at, last_message_at
		FROM conversations
		WHERE id = ?
	`, id)

	var (
		conv             models.Conversation
		participantsJSON string
		isCoach          int
		parentID         sql.NullString
	)
	err := row.Scan(&conv.ID, &participantsJSON, &isCoach, &parentID, &conv.CreatedAt, &conv.LastMessageAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if err := json.Unmarshal([]byte(participantsJSON), &conv.Participants); err != nil {
		conv.Participants = []string{}
	}
	conv.IsCoach = isCoach == 1
	if parentID.Valid {
		conv.ParentID = parentID.String
	}

	return &conv, nil
}

// TouchLastMessage bumps a conversation's last-message pointer
func (s *ConversationStore) TouchLastMessage(id string, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE conversations SET last_message_at = ? WHERE id = ?
	`, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// EnsureCoach returns the coach conversation id for (userID, parentID),
// creating it when absent. Creation is idempotent: the UNIQUE(user_id,
// parent_id) constraint on coach_index guarantees at most one coach
// conversation per pair even under a race. The second return value reports
// whether this call created the conversation.
func (s *ConversationStore) EnsureCoach(userID, parentID string) (string, bool, error) {
	// Fast path: mapping already exists.
	if coachID, err := s.lookupCoach(userID, parentID); err == nil {
		return coachID, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", false, err
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	coachID := models.GenerateConversationID()
	participantsJSON, err := json.Marshal([]string{userID, models.CoachSenderID})
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal participants: %w", err)
	}

	// INSERT OR IGNORE is the compare-and-swap on the index key: under a
	// race, exactly one writer wins and the loser re-reads the winner's id.
	res, err := tx.Exec(`
		INSERT OR IGNORE INTO coach_index (user_id, parent_id, coach_id, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, parentID, coachID, now)
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve coach index: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("failed to check coach index insert: %w", err)
	}
	if affected == 0 {
		// Lost the race; return the existing mapping.
		if err := tx.Commit(); err != nil {
			return "", false, fmt.Errorf("failed to commit: %w", err)
		}
		existing, err := s.lookupCoach(userID, parentID)
		return existing, false, err
	}

	_, err = tx.Exec(`
		INSERT INTO conversations (id, participants, is_coach, parent_id, created_at, last_message_at)
		VALUES (?, ?, 1, ?, ?, ?)
	`, coachID, string(participantsJSON), parentID, now, now)
	if err != nil {
		return "", false, fmt.Errorf("failed to create coach conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit coach conversation: %w", err)
	}

	return coachID, true, nil
}

// lookupCoach reads the coach index for a (user, parent) pair
func (s *ConversationStore) lookupCoach(userID, parentID string) (string, error) {
	var coachID string
	err := s.db.QueryRow(`
		SELECT coach_id FROM coach_index WHERE user_id = ? AND parent_id = ?
	`, userID, parentID).Scan(&coachID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("coach index for %s/%s: %w", userID, parentID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read coach index: %w", err)
	}
	return coachID, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
