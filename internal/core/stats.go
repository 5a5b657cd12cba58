// ABOUTME: Conversation statistics engine: pure aggregation over retrieved matches
// ABOUTME: No I/O; callers bound the input set before calling
package core

import (
	"github.com/harper/coach-standalone/internal/index"
	"github.com/harper/coach-standalone/internal/models"
)

// ComputeStats aggregates sentiment counts, the positive:negative ratio, and
// horsemen counts over an already-retrieved match set. The function is
// order-independent. Missing or unrecognized sentiment counts as neutral;
// the "none" tag and unknown tags are ignored by the horsemen counters.
func ComputeStats(matches []index.Match) models.ConversationStats {
	stats := models.ConversationStats{Total: len(matches)}

	for _, m := range matches {
		switch models.ParseSentiment(string(m.Metadata.Sentiment)) {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}

		switch m.Metadata.Horseman {
		case models.HorsemanCriticism:
			stats.Horsemen.Criticism++
		case models.HorsemanContempt:
			stats.Horsemen.Contempt++
		case models.HorsemanDefensiveness:
			stats.Horsemen.Defensiveness++
		}
	}

	stats.Ratio = models.FormatRatio(stats.Positive, stats.Negative)
	return stats
}
