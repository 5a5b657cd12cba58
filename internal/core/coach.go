// ABOUTME: Coach service: coach-chat lifecycle and the analyze request pipeline
// ABOUTME: Every analysis request appends exactly one coach message, even degraded
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/coach-standalone/internal/config"
	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/models"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
)

// AnalysisKind selects which analysis an Analyze request runs
type AnalysisKind string

const (
	AnalysisRatio           AnalysisKind = "ratio"
	AnalysisHorsemen        AnalysisKind = "horsemen"
	AnalysisLoveMap         AnalysisKind = "lovemap"
	AnalysisSharedInterests AnalysisKind = "shared_interests"
	AnalysisBids            AnalysisKind = "bids"
	AnalysisRuptureRepair   AnalysisKind = "rupture_repair"
	AnalysisTopicChampion   AnalysisKind = "topic_champion"
	AnalysisEnergy          AnalysisKind = "energy"
	AnalysisCheckin         AnalysisKind = "checkin"
)

// ParseAnalysisKind validates a caller-supplied kind string
func ParseAnalysisKind(s string) (AnalysisKind, error) {
	kind := AnalysisKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case AnalysisRatio, AnalysisHorsemen, AnalysisLoveMap, AnalysisSharedInterests,
		AnalysisBids, AnalysisRuptureRepair, AnalysisTopicChampion, AnalysisEnergy,
		AnalysisCheckin:
		return kind, nil
	}
	return "", fmt.Errorf("unknown analysis kind %q", s)
}

// coachHistoryWindow bounds how many prior coach-chat turns feed the prompt
const coachHistoryWindow = 10

// excerptWindow bounds how many parent messages the prompt quotes
const excerptWindow = 8

// CoachService orchestrates ingestion, analysis, and coach-chat persistence
type CoachService struct {
	messages      *sqlite.MessageStore
	conversations *sqlite.ConversationStore
	profiles      *sqlite.ProfileStore
	idx           index.Index
	ingestor      *Ingestor
	topics        *TopicEngine
	synth         *Synthesizer
	cfg           *config.Config
}

// NewCoachService wires the service from its collaborators
func NewCoachService(
	messages *sqlite.MessageStore,
	conversations *sqlite.ConversationStore,
	profiles *sqlite.ProfileStore,
	idx index.Index,
	ingestor *Ingestor,
	topics *TopicEngine,
	synth *Synthesizer,
	cfg *config.Config,
) *CoachService {
	return &CoachService{
		messages:      messages,
		conversations: conversations,
		profiles:      profiles,
		idx:           idx,
		ingestor:      ingestor,
		topics:        topics,
		synth:         synth,
		cfg:           cfg,
	}
}

// IngestMessage appends a message and runs the ingestion pipeline. Empty or
// whitespace-only text is a no-op. Embedding failure propagates after the
// append so the message log never loses user text; the index write can be
// retried by re-calling with the same message id.
func (cs *CoachService) IngestMessage(ctx context.Context, conversationID, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	msg, err := models.NewMessage(conversationID, senderID, text)
	if err != nil {
		return nil, err
	}

	if err := cs.messages.Append(msg); err != nil {
		return nil, err
	}
	if err := cs.conversations.TouchLastMessage(conversationID, msg.CreatedAt); err != nil {
		return nil, err
	}

	if err := cs.ingestor.Ingest(ctx, msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// StartCoachChat returns the coach conversation id for (userID, parentID),
// creating it with a persona-specific greeting on first call. A nonexistent
// parent is an error with no side effects.
func (cs *CoachService) StartCoachChat(ctx context.Context, userID, parentID string) (string, error) {
	parent, err := cs.conversations.Get(parentID)
	if err != nil {
		return "", fmt.Errorf("parent conversation: %w", err)
	}

	kind, err := cs.relationshipKind(parent)
	if err != nil {
		return "", err
	}

	coachID, created, err := cs.conversations.EnsureCoach(userID, parentID)
	if err != nil {
		return "", err
	}

	if created {
		if err := cs.appendCoachMessage(coachID, Greeting(kind)); err != nil {
			return "", err
		}
	}

	return coachID, nil
}

// GetCoachHistory reads the coach conversation transcript oldest-to-newest
func (cs *CoachService) GetCoachHistory(coachID string, limit int) ([]models.Message, error) {
	if _, err := cs.conversations.Get(coachID); err != nil {
		return nil, fmt.Errorf("coach conversation: %w", err)
	}
	return cs.messages.GetByConversation(coachID, limit)
}

// Analyze runs one analysis over the parent conversation and appends the
// resulting coach message to the coach conversation. Relationship gating and
// missing conversations fail before any write; insufficient data degrades to
// an informational coach message rather than an error. The reply text is
// returned for convenience; it is also readable via GetCoachHistory.
func (cs *CoachService) Analyze(ctx context.Context, kind AnalysisKind, coachID, parentID string) (string, error) {
	coach, err := cs.conversations.Get(coachID)
	if err != nil {
		return "", fmt.Errorf("coach conversation: %w", err)
	}
	if !coach.IsCoach {
		return "", fmt.Errorf("conversation %s is not a coach conversation", coachID)
	}

	parent, err := cs.conversations.Get(parentID)
	if err != nil {
		return "", fmt.Errorf("parent conversation: %w", err)
	}

	relKind, err := cs.relationshipKind(parent)
	if err != nil {
		return "", err
	}
	if err := gateKind(kind, relKind); err != nil {
		return "", err
	}

	minRequired := cs.cfg.MinMessages
	if kind == AnalysisLoveMap || kind == AnalysisSharedInterests {
		minRequired = cs.cfg.MinTopicMsgs
	}

	count, err := cs.messages.Count(parentID)
	if err != nil {
		return "", err
	}
	if count < minRequired {
		notice := fmt.Sprintf(
			"I need at least %d messages in this conversation before I can run that analysis. You have %d so far. Keep chatting and try again!",
			minRequired, count,
		)
		if err := cs.appendCoachMessage(coachID, notice); err != nil {
			return "", err
		}
		return notice, nil
	}

	payload, err := cs.buildPayload(ctx, kind, parent)
	if errors.Is(err, ErrInsufficientData) {
		notice := "I don't have enough analyzable messages in this conversation yet. Keep chatting and try again!"
		if appendErr := cs.appendCoachMessage(coachID, notice); appendErr != nil {
			return "", appendErr
		}
		return notice, nil
	}
	if err != nil {
		return "", err
	}

	history, err := cs.messages.GetByConversation(coachID, coachHistoryWindow)
	if err != nil {
		return "", err
	}
	excerpt, err := cs.parentExcerpt(parentID)
	if err != nil {
		return "", err
	}

	reply := cs.synth.Synthesize(ctx, relKind, payload, history, excerpt)

	if err := cs.appendCoachMessage(coachID, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// gateKind enforces the relationship restrictions on gated analyses
func gateKind(kind AnalysisKind, rel models.RelationshipKind) error {
	switch kind {
	case AnalysisTopicChampion, AnalysisEnergy:
		if rel != models.Group {
			return fmt.Errorf("analysis %s is only available for group conversations", kind)
		}
	case AnalysisCheckin:
		if rel != models.Platonic {
			return fmt.Errorf("analysis %s is only available for platonic conversations", kind)
		}
	}
	return nil
}

// buildPayload retrieves from the index and renders the analysis result as
// text for the synthesizer prompt.
func (cs *CoachService) buildPayload(ctx context.Context, kind AnalysisKind, parent *models.Conversation) (string, error) {
	matches, err := cs.idx.Query(ctx, parent.ID, cs.cfg.RetrievalBudget, nil)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve messages: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrInsufficientData
	}

	switch kind {
	case AnalysisRatio:
		stats := ComputeStats(matches)
		return fmt.Sprintf(
			"Positive-to-negative interaction ratio over the last %d messages: %s (%d positive, %d negative, %d neutral). Gottman research associates stable relationships with a ratio of 5.00 or higher.",
			stats.Total, stats.Ratio, stats.Positive, stats.Negative, stats.Neutral,
		), nil

	case AnalysisHorsemen:
		stats := ComputeStats(matches)
		return fmt.Sprintf(
			"Four-horsemen scan over the last %d messages: criticism %d, contempt %d, defensiveness %d.",
			stats.Total, stats.Horsemen.Criticism, stats.Horsemen.Contempt, stats.Horsemen.Defensiveness,
		), nil

	case AnalysisLoveMap:
		scores, err := cs.topics.ScoreTopics(ctx, cs.cfg.Topics, parent.ID, cs.cfg.RetrievalBudget)
		if err != nil {
			return "", err
		}
		pick, err := cs.topics.UnderExplored(scores)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Love map gap: the topic %q has barely come up (%d related messages). Suggest an open-ended question that explores it.",
			pick.Topic, pick.Support,
		), nil

	case AnalysisSharedInterests:
		scores, err := cs.topics.ScoreTopics(ctx, cs.cfg.Topics, parent.ID, cs.cfg.RetrievalBudget)
		if err != nil {
			return "", err
		}
		pick, err := cs.topics.PositiveLean(scores)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Shared interest: conversations about %q lean positive (affinity score %.2f across %d related messages). Suggest a way to build on it.",
			pick.Topic, pick.Score, pick.Support,
		), nil

	case AnalysisBids:
		stats := ComputeStats(matches)
		return fmt.Sprintf(
			"Bids for connection: %d of the last %d messages were positive reaches toward the other person, %d were negative turns. Discuss turning toward bids rather than away.",
			stats.Positive, stats.Total, stats.Negative,
		), nil

	case AnalysisRuptureRepair:
		ruptures, repairs := countRuptureRepair(matches)
		return fmt.Sprintf(
			"Rupture and repair: %d negative stretches detected in the recent window, %d followed by a positive repair attempt. Discuss how repairs are landing.",
			ruptures, repairs,
		), nil

	case AnalysisTopicChampion:
		scores, err := cs.topics.ScoreTopics(ctx, cs.cfg.Topics, parent.ID, cs.cfg.RetrievalBudget)
		if err != nil {
			return "", err
		}
		pick, err := cs.topics.PositiveLean(scores)
		if err != nil {
			return "", err
		}
		champion, support, err := cs.topics.TopicChampion(ctx, pick.Topic, parent.ID, cs.cfg.RetrievalBudget)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Topic champion: %s drives the conversation about %q (%d related messages). Celebrate that energy for the group.",
			champion, pick.Topic, support,
		), nil

	case AnalysisEnergy:
		stats := ComputeStats(matches)
		energy := 0
		if stats.Total > 0 {
			energy = int(float64(stats.Positive)/float64(stats.Total)*100 + 0.5)
		}
		return fmt.Sprintf(
			"Group energy score: %d out of 100 (%d positive messages out of %d). Frame what the score says about the group's mood.",
			energy, stats.Positive, stats.Total,
		), nil

	case AnalysisCheckin:
		stats := ComputeStats(matches)
		days := int(time.Since(parent.LastMessageAt).Hours() / 24)
		return fmt.Sprintf(
			"Friendship check-in: last message %d days ago; recent tone was %d positive, %d negative, %d neutral. Suggest a low-pressure way to reconnect.",
			days, stats.Positive, stats.Negative, stats.Neutral,
		), nil
	}

	return "", fmt.Errorf("unknown analysis kind %q", kind)
}

// countRuptureRepair walks the window chronologically and counts negative
// messages (ruptures) followed by a positive message within the next three
// turns (repairs).
func countRuptureRepair(matches []index.Match) (int, int) {
	ordered := make([]index.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Metadata.CreatedAt.Before(ordered[j].Metadata.CreatedAt)
	})

	ruptures, repairs := 0, 0
	for i, m := range ordered {
		if models.ParseSentiment(string(m.Metadata.Sentiment)) != models.SentimentNegative {
			continue
		}
		ruptures++
		for j := i + 1; j < len(ordered) && j <= i+3; j++ {
			if models.ParseSentiment(string(ordered[j].Metadata.Sentiment)) == models.SentimentPositive {
				repairs++
				break
			}
		}
	}
	return ruptures, repairs
}

// relationshipKind classifies the parent conversation from its participant
// list and stored partner links.
func (cs *CoachService) relationshipKind(parent *models.Conversation) (models.RelationshipKind, error) {
	profiles, err := cs.profiles.GetMany(parent.Participants)
	if err != nil {
		return "", err
	}
	return models.ClassifyRelationship(parent.Participants, profiles)
}

// parentExcerpt renders the tail of the parent conversation for the prompt
func (cs *CoachService) parentExcerpt(parentID string) (string, error) {
	recent, err := cs.messages.GetByConversation(parentID, excerptWindow)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, m := range recent {
		fmt.Fprintf(&b, "%s: %s\n", m.SenderID, m.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

// appendCoachMessage writes one coach turn and bumps the conversation pointer
func (cs *CoachService) appendCoachMessage(coachID, text string) error {
	msg, err := models.NewMessage(coachID, models.CoachSenderID, text)
	if err != nil {
		return err
	}
	if err := cs.messages.Append(msg); err != nil {
		return fmt.Errorf("failed to append coach message: %w", err)
	}
	if err := cs.conversations.TouchLastMessage(coachID, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to touch coach conversation: %w", err)
	}
	return nil
}
