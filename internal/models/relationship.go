// ABOUTME: RelationshipKind classification from participants and partner links
// ABOUTME: Selects which coach persona applies to a conversation
package models

import "fmt"

// RelationshipKind is the closed set of conversation relationship types
type RelationshipKind string

const (
	Romantic RelationshipKind = "romantic"
	Platonic RelationshipKind = "platonic"
	Group    RelationshipKind = "group"
)

// ClassifyRelationship derives the relationship kind from the participant
// list and a symmetric partner-link check. Two participants who mutually
// reference each other as partners are romantic; two without that mutual
// link are platonic; three or more are a group. Fewer than two participants
// is an invariant violation.
func ClassifyRelationship(participants []string, profiles map[string]UserProfile) (RelationshipKind, error) {
	switch {
	case len(participants) < 2:
		return "", fmt.Errorf("conversation must have at least 2 participants, got %d", len(participants))
	case len(participants) >= 3:
		return Group, nil
	}

	a, b := participants[0], participants[1]
	pa, okA := profiles[a]
	pb, okB := profiles[b]
	if okA && okB && pa.PartnerID == b && pb.PartnerID == a {
		return Romantic, nil
	}
	return Platonic, nil
}
