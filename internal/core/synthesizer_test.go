// ABOUTME: Tests for the coach reply synthesizer: personas, prompt assembly, fallback
// ABOUTME: Asserts on the recorded prompt rather than on model behavior
package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/models"
)

func TestSynthesizer_FallbackOnCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	synth := NewSynthesizer(completer, 180)

	got := synth.Synthesize(context.Background(), models.Romantic, "ratio 1.00", nil, "")
	if got != FallbackResponse {
		t.Errorf("Synthesize() = %q, want fallback", got)
	}
}

func TestSynthesizer_FallbackOnEmptyReply(t *testing.T) {
	completer := &fakeCompleter{reply: "   \n"}
	synth := NewSynthesizer(completer, 180)

	got := synth.Synthesize(context.Background(), models.Platonic, "payload", nil, "")
	if got != FallbackResponse {
		t.Errorf("Synthesize() = %q, want fallback for blank reply", got)
	}
}

func TestSynthesizer_PersonaSelection(t *testing.T) {
	tests := []struct {
		kind models.RelationshipKind
		want string
	}{
		{models.Romantic, "Gottman"},
		{models.Platonic, "friendship"},
		{models.Group, "group dynamics"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			completer := &fakeCompleter{reply: "ok"}
			synth := NewSynthesizer(completer, 180)

			synth.Synthesize(context.Background(), tt.kind, "payload", nil, "")

			if len(completer.lastPrompt) == 0 {
				t.Fatal("no prompt recorded")
			}
			system := completer.lastPrompt[0]
			if system.Role != llm.RoleSystem {
				t.Fatalf("first message role = %q, want system", system.Role)
			}
			if !strings.Contains(system.Content, tt.want) {
				t.Errorf("persona for %s should mention %q", tt.kind, tt.want)
			}
		})
	}
}

func TestSynthesizer_HistoryRoleTagging(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	synth := NewSynthesizer(completer, 180)

	history := []models.Message{
		{SenderID: "alice", Text: "how are we doing?", CreatedAt: time.Now()},
		{SenderID: models.CoachSenderID, Text: "you're doing well", CreatedAt: time.Now()},
	}

	synth.Synthesize(context.Background(), models.Platonic, "payload", history, "")

	var roles []string
	for _, m := range completer.lastPrompt {
		roles = append(roles, m.Role)
	}
	// system persona, user turn, assistant turn, final instruction
	want := []string{llm.RoleSystem, llm.RoleUser, llm.RoleAssistant, llm.RoleUser}
	if len(roles) != len(want) {
		t.Fatalf("prompt length = %d, want %d (%v)", len(roles), len(want), roles)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("prompt[%d] role = %q, want %q", i, roles[i], want[i])
		}
	}
}

func TestSynthesizer_PromptCarriesPayloadAndWordLimit(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	synth := NewSynthesizer(completer, 120)

	synth.Synthesize(context.Background(), models.Romantic, "ratio is 2.00", nil, "alice: hi\nbob: hey")

	text := promptText(completer.lastPrompt)
	if !strings.Contains(text, "ratio is 2.00") {
		t.Error("prompt should embed the analysis payload")
	}
	if !strings.Contains(text, "120 words") {
		t.Error("prompt should state the word ceiling")
	}
	if !strings.Contains(text, "alice: hi") {
		t.Error("prompt should include the conversation excerpt")
	}
}

func TestSynthesizer_TrimsReply(t *testing.T) {
	completer := &fakeCompleter{reply: "  a thoughtful reply \n"}
	synth := NewSynthesizer(completer, 180)

	got := synth.Synthesize(context.Background(), models.Group, "payload", nil, "")
	if got != "a thoughtful reply" {
		t.Errorf("Synthesize() = %q, want trimmed reply", got)
	}
}

func TestGreeting_VariesByKind(t *testing.T) {
	romantic := Greeting(models.Romantic)
	platonic := Greeting(models.Platonic)
	group := Greeting(models.Group)

	if romantic == platonic || platonic == group || romantic == group {
		t.Error("greetings should differ by relationship kind")
	}
	if !strings.Contains(group, "group") {
		t.Errorf("group greeting = %q, should mention the group", group)
	}
}
