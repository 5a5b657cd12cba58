// ABOUTME: CLI command to show or update a user profile
// ABOUTME: Partner links decide whether a two-person conversation is romantic
package commands

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/coach-standalone/internal/models"
	"github.com/harper/coach-standalone/internal/storage/sqlite"
)

var (
	profileName    string
	profilePartner string
)

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Show or update a user profile",
		Long: `Show or update a user profile.

With no flags the profile is printed. With --name or --partner the profile is
updated; mutual --partner links make a two-person conversation romantic.

Examples:
  coach profile alice
  coach profile alice --name "Alice" --partner bob`,
		Args: cobra.ExactArgs(1),
		RunE: runProfile,
	}

	cmd.Flags().StringVar(&profileName, "name", "", "Display name")
	cmd.Flags().StringVar(&profilePartner, "partner", "", "Partner user id")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	userID := args[0]

	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("partner") {
		profile, err := a.profiles.Get(userID)
		if errors.Is(err, sqlite.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No profile for %s\n", userID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading profile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User:    %s\n", profile.UserID)
		if profile.Name != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Name:    %s\n", profile.Name)
		}
		if profile.PartnerID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Partner: %s\n", profile.PartnerID)
		}
		return nil
	}

	existing, err := a.profiles.Get(userID)
	if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		return fmt.Errorf("reading profile: %w", err)
	}

	profile := &models.UserProfile{UserID: userID}
	if existing != nil {
		profile = existing
	}
	if cmd.Flags().Changed("name") {
		profile.Name = profileName
	}
	if cmd.Flags().Changed("partner") {
		profile.PartnerID = profilePartner
	}

	if err := a.profiles.Save(profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated profile for %s\n", userID)
	}
	return nil
}
