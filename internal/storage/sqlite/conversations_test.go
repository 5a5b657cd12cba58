// ABOUTME: Tests for conversation storage and idempotent coach-chat creation
// ABOUTME: Verifies the UNIQUE coach_index constraint yields one coach thread per pair

package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/harper/coach-standalone/internal/models"
)

func testConversation(id string, participants []string) *models.Conversation {
	now := time.Now().UTC()
	return &models.Conversation{
		ID:            id,
		Participants:  participants,
		CreatedAt:     now,
		LastMessageAt: now,
	}
}

func TestConversationStore_CreateAndGet(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewConversationStore(db)

	conv := testConversation("c1", []string{"alice", "bob"})
	if err := store.Create(conv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get("c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.ID != "c1" {
		t.Errorf("ID = %q, want c1", got.ID)
	}
	if len(got.Participants) != 2 || got.Participants[0] != "alice" {
		t.Errorf("Participants = %v, want [alice bob]", got.Participants)
	}
	if got.IsCoach {
		t.Error("IsCoach should be false for a regular conversation")
	}
}

func TestConversationStore_GetNotFound(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewConversationStore(db)

	_, err = store.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestConversationStore_EnsureCoachIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewConversationStore(db)

	if err := store.Create(testConversation("parent1", []string{"alice", "bob"})); err != nil {
		t.Fatalf("Create(parent) error = %v", err)
	}

	coachID, created, err := store.EnsureCoach("alice", "parent1")
	if err != nil {
		t.Fatalf("EnsureCoach() error = %v", err)
	}
	if !created {
		t.Error("first EnsureCoach() should report created = true")
	}
	if coachID == "" {
		t.Fatal("EnsureCoach() returned empty id")
	}

	// Second call must return the same id without creating anything.
	coachID2, created2, err := store.EnsureCoach("alice", "parent1")
	if err != nil {
		t.Fatalf("second EnsureCoach() error = %v", err)
	}
	if created2 {
		t.Error("second EnsureCoach() should report created = false")
	}
	if coachID2 != coachID {
		t.Errorf("second EnsureCoach() = %q, want %q", coachID2, coachID)
	}

	// Exactly one coach conversation record exists.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE is_coach = 1`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("coach conversation count = %d, want 1", count)
	}

	// The coach conversation carries the reserved sender and the parent link.
	coach, err := store.Get(coachID)
	if err != nil {
		t.Fatalf("Get(coach) error = %v", err)
	}
	if !coach.IsCoach {
		t.Error("coach conversation should have IsCoach = true")
	}
	if coach.ParentID != "parent1" {
		t.Errorf("ParentID = %q, want parent1", coach.ParentID)
	}
	if len(coach.Participants) != 2 || coach.Participants[1] != models.CoachSenderID {
		t.Errorf("Participants = %v, want [alice coach]", coach.Participants)
	}
}

func TestConversationStore_EnsureCoachSeparatePairs(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewConversationStore(db)

	aliceCoach, _, err := store.EnsureCoach("alice", "parent1")
	if err != nil {
		t.Fatalf("EnsureCoach(alice) error = %v", err)
	}
	bobCoach, _, err := store.EnsureCoach("bob", "parent1")
	if err != nil {
		t.Fatalf("EnsureCoach(bob) error = %v", err)
	}

	if aliceCoach == bobCoach {
		t.Error("different users should get different coach conversations for the same parent")
	}
}

func TestConversationStore_TouchLastMessage(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewConversationStore(db)

	conv := testConversation("c1", []string{"alice", "bob"})
	conv.LastMessageAt = time.Now().UTC().Add(-time.Hour)
	if err := store.Create(conv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC()
	if err := store.TouchLastMessage("c1", now); err != nil {
		t.Fatalf("TouchLastMessage() error = %v", err)
	}

	got, err := store.Get("c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LastMessageAt.Before(conv.LastMessageAt) {
		t.Error("LastMessageAt should have advanced")
	}
}
