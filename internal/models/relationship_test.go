// ABOUTME: Tests for relationship classification from partner links
// ABOUTME: Covers romantic, platonic, group, and invariant-violation cases

package models

import "testing"

func TestClassifyRelationship(t *testing.T) {
	tests := []struct {
		name         string
		participants []string
		profiles     map[string]UserProfile
		want         RelationshipKind
		wantErr      bool
	}{
		{
			name:         "mutual partners are romantic",
			participants: []string{"alice", "bob"},
			profiles: map[string]UserProfile{
				"alice": {UserID: "alice", PartnerID: "bob"},
				"bob":   {UserID: "bob", PartnerID: "alice"},
			},
			want: Romantic,
		},
		{
			name:         "one-sided link is platonic",
			participants: []string{"alice", "bob"},
			profiles: map[string]UserProfile{
				"alice": {UserID: "alice", PartnerID: "bob"},
				"bob":   {UserID: "bob"},
			},
			want: Platonic,
		},
		{
			name:         "no links is platonic",
			participants: []string{"alice", "bob"},
			profiles:     map[string]UserProfile{},
			want:         Platonic,
		},
		{
			name:         "three participants are a group",
			participants: []string{"alice", "bob", "carol"},
			profiles: map[string]UserProfile{
				"alice": {UserID: "alice", PartnerID: "bob"},
				"bob":   {UserID: "bob", PartnerID: "alice"},
			},
			want: Group,
		},
		{
			name:         "single participant is invalid",
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "empty participant list is invalid",
			participants: []string{},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyRelationship(tt.participants, tt.profiles)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ClassifyRelationship() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyRelationship() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyRelationship() = %q, want %q", got, tt.want)
			}
		})
	}
}
