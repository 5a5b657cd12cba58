// ABOUTME: User profile storage operations for SQLite
// ABOUTME: Partner links feed relationship classification
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/coach-standalone/internal/models"
)

// ProfileStore handles user profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Save upserts a profile by user id
func (s *ProfileStore) Save(profile *models.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile user id cannot be empty")
	}

	_, err := s.db.Exec(`
		INSERT INTO profiles (user_id, name, partner_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			partner_id = excluded.partner_id,
			updated_at = excluded.updated_at
	`, profile.UserID, profile.Name, nullableString(profile.PartnerID), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by user id, or ErrNotFound
func (s *ProfileStore) Get(userID string) (*models.UserProfile, error) {
	row := s.db.QueryRow(`
		SELECT user_id, name, partner_id, updated_at FROM profiles WHERE user_id = ?
	`, userID)

	var (
		profile   models.UserProfile
		name      sql.NullString
		partnerID sql.NullString
	)
	err := row.Scan(&profile.UserID, &name, &partnerID, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Name = name.String
	profile.PartnerID = partnerID.String
	return &profile, nil
}

// GetMany loads profiles for a participant list. Missing users simply have
// no entry in the returned map; that is not an error.
func (s *ProfileStore) GetMany(userIDs []string) (map[string]models.UserProfile, error) {
	profiles := make(map[string]models.UserProfile, len(userIDs))
	for _, id := range userIDs {
		profile, err := s.Get(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		profiles[id] = *profile
	}
	return profiles, nil
}
