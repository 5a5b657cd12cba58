// ABOUTME: TopicScore is the ephemeral output of the topic affinity engine
package models

// TopicScore pairs a candidate topic phrase with its similarity-weighted
// sentiment score and the number of messages supporting it.
type TopicScore struct {
	Topic   string  `json:"topic"`
	Score   float64 `json:"score"`
	Support int     `json:"support"`
}
