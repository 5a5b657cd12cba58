// ABOUTME: ConversationStats derived from classified messages
// ABOUTME: Recomputed fresh per analysis request, never persisted
package models

import "fmt"

// RatioInfinity is the display sentinel for a ratio with zero negatives.
// This exact string is user-visible and must be preserved.
const RatioInfinity = "∞"

// HorsemenCounts tallies the three actively classified negative patterns
type HorsemenCounts struct {
	Criticism     int `json:"criticism"`
	Contempt      int `json:"contempt"`
	Defensiveness int `json:"defensiveness"`
}

// ConversationStats aggregates sentiment and behavioral counts over a
// bounded retrieved message set.
type ConversationStats struct {
	Positive int            `json:"positive"`
	Negative int            `json:"negative"`
	Neutral  int            `json:"neutral"`
	Total    int            `json:"total_messages"`
	Ratio    string         `json:"ratio"`
	Horsemen HorsemenCounts `json:"horsemen"`
}

// FormatRatio renders positive/negative to two decimal places, with the
// infinity sentinel when there are no negatives (0/0 included).
func FormatRatio(positive, negative int) string {
	if negative == 0 {
		return RatioInfinity
	}
	return fmt.Sprintf("%.2f", float64(positive)/float64(negative))
}
