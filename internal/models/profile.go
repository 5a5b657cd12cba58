// ABOUTME: UserProfile holds per-user data needed for relationship classification
// ABOUTME: PartnerID is the one-directional partner reference; romance requires symmetry
package models

import "time"

// UserProfile is a participant's stored profile
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	PartnerID string    `json:"partner_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
