// ABOUTME: Sentiment and behavioral-tag labels produced by message classification
// ABOUTME: Closed string types with strict parsing and a neutral fallback
package models

import "encoding/json"

// Sentiment is the per-message sentiment label
type Sentiment string

const (
	SentimentPositive Sentiment = "pos"
	SentimentNeutral  Sentiment = "neu"
	SentimentNegative Sentiment = "neg"
)

// Horseman is one of the negative-communication-pattern labels.
// Stonewalling exists in the taxonomy but is not actively classified.
type Horseman string

const (
	HorsemanCriticism     Horseman = "criticism"
	HorsemanContempt      Horseman = "contempt"
	HorsemanDefensiveness Horseman = "defensiveness"
	HorsemanNone          Horseman = "none"
)

// ParseSentiment maps a raw label to a Sentiment; anything unrecognized is neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

// ParseHorseman maps a raw label to a Horseman; anything unrecognized is none.
func ParseHorseman(s string) Horseman {
	switch Horseman(s) {
	case HorsemanCriticism, HorsemanContempt, HorsemanDefensiveness, HorsemanNone:
		return Horseman(s)
	default:
		return HorsemanNone
	}
}

// Value returns the numeric sentiment weight used by topic affinity scoring.
func (s Sentiment) Value() float64 {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Classification is the model-produced label pair for one message
type Classification struct {
	Sentiment Sentiment `json:"sentiment"`
	Horseman  Horseman  `json:"horseman"`
}

// NeutralClassification is the fallback used when the classifier output
// cannot be parsed. Classification failures must never block ingestion.
func NeutralClassification() Classification {
	return Classification{Sentiment: SentimentNeutral, Horseman: HorsemanNone}
}

// ParseClassification parses the classifier's JSON output against a single
// strict schema. Any parse or shape mismatch yields the neutral fallback;
// this function never returns an error.
func ParseClassification(raw []byte) Classification {
	var out struct {
		Sentiment string `json:"sentiment"`
		Horseman  string `json:"horseman"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return NeutralClassification()
	}
	return Classification{
		Sentiment: ParseSentiment(out.Sentiment),
		Horseman:  ParseHorseman(out.Horseman),
	}
}
