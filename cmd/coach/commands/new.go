// ABOUTME: CLI command to create a conversation
// ABOUTME: Conversations must exist before messages can be sent into them
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/coach-standalone/internal/models"
)

// NewNewCmd creates the new command
func NewNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <participant> <participant> [participant...]",
		Short: "Create a conversation",
		Long: `Create a conversation between two or more participants.

Two participants make a pair (romantic when their profiles link each other as
partners, platonic otherwise); three or more make a group.

Examples:
  coach new alice bob
  coach new alice bob carol`,
		Args: cobra.MinimumNArgs(2),
		RunE: runNew,
	}
}

func runNew(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:            models.GenerateConversationID(),
		Participants:  args,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if err := a.conversations.Create(conv); err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}

	if quiet {
		fmt.Fprintln(cmd.OutOrStdout(), conv.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created conversation %s with %d participants\n", conv.ID, len(args))
	}
	return nil
}
