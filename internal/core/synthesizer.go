// ABOUTME: Coach reply synthesis: persona selection, prompt assembly, completion
// ABOUTME: Completion failure degrades to a fixed fallback string, never an error
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/coach-standalone/internal/llm"
	"github.com/harper/coach-standalone/internal/models"
)

// FallbackResponse is returned verbatim when the completion backend fails.
// Coach chats must always get a reply, even a canned one.
const FallbackResponse = "Unable to generate response at this time."

const romanticPersona = `You are a warm, direct relationship coach for romantic couples.
You ground your advice in the Gottman method: the positive-to-negative interaction
ratio, the four horsemen (criticism, contempt, defensiveness, stonewalling),
bids for connection, repair attempts, and love maps. Speak to the person, not
about the research. Never diagnose; suggest one concrete thing to try.`

const platonicPersona = `You are a thoughtful coach for close friendships.
You draw on friendship science: shared interests, reciprocity, regular
check-ins, and repair after friction. Keep advice practical and low-pressure.
Never diagnose; suggest one concrete thing to try.`

const groupPersona = `You are a pragmatic coach for group conversations and teams.
You focus on group dynamics: participation balance, energy, who champions which
topics, and how the group handles disagreement. Address the group member who
asked. Never diagnose; suggest one concrete thing to try.`

// Synthesizer turns an analysis payload plus coach-chat history into a
// persona-appropriate reply.
type Synthesizer struct {
	completer Completer
	wordLimit int
}

// NewSynthesizer creates a Synthesizer. wordLimit caps the reply length
// requested from the model.
func NewSynthesizer(completer Completer, wordLimit int) *Synthesizer {
	return &Synthesizer{completer: completer, wordLimit: wordLimit}
}

// persona returns the system prompt for a relationship kind
func persona(kind models.RelationshipKind) string {
	switch kind {
	case models.Romantic:
		return romanticPersona
	case models.Group:
		return groupPersona
	default:
		return platonicPersona
	}
}

// Greeting is the first coach message of a newly created coach chat
func Greeting(kind models.RelationshipKind) string {
	switch kind {
	case models.Romantic:
		return "Hi! I'm your relationship coach. I've been looking at how you two communicate. Ask me for an analysis any time, or just tell me what's on your mind."
	case models.Group:
		return "Hi! I'm your group coach. I watch how this group communicates. Ask me for an analysis any time."
	default:
		return "Hi! I'm your friendship coach. I've been looking at how you two keep in touch. Ask me for an analysis any time."
	}
}

// Synthesize assembles the prompt and runs the completion. payload is the
// structured analysis result rendered as text; history is prior coach-chat
// turns oldest first; excerpt is an optional slice of the underlying
// conversation for grounding. Any completion failure returns
// FallbackResponse with no error so the coach chat always advances.
func (s *Synthesizer) Synthesize(ctx context.Context, kind models.RelationshipKind, payload string, history []models.Message, excerpt string) string {
	prompt := make([]llm.Message, 0, len(history)+3)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: persona(kind)})

	if excerpt != "" {
		prompt = append(prompt, llm.Message{
			Role:    llm.RoleSystem,
			Content: "Recent excerpt from the conversation being coached:\n" + excerpt,
		})
	}

	for _, m := range history {
		role := llm.RoleUser
		if m.SenderID == models.CoachSenderID {
			role = llm.RoleAssistant
		}
		prompt = append(prompt, llm.Message{Role: role, Content: m.Text})
	}

	prompt = append(prompt, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf(
			"Analysis result:\n%s\n\nExplain what this means for the relationship and suggest one concrete next step. Reply in at most %d words.",
			payload, s.wordLimit,
		),
	})

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		return FallbackResponse
	}

	return strings.TrimSpace(reply)
}
