// ABOUTME: CLI command to get or create the coach conversation for a pair
// ABOUTME: Creation is idempotent; the first call posts a greeting
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the start command
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <user-id> <parent-conversation-id>",
		Short: "Start (or fetch) a coach chat",
		Long: `Get or create the coach conversation for a user and parent conversation.

At most one coach conversation exists per (user, parent) pair; repeat calls
return the same id. The first call posts a persona-specific greeting.

Examples:
  coach start alice conv_20260823_120000_ab12cd34`,
		Args: cobra.ExactArgs(2),
		RunE: runStart,
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	coachID, err := a.service.StartCoachChat(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("starting coach chat: %w", err)
	}

	if quiet {
		fmt.Fprintln(cmd.OutOrStdout(), coachID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Coach chat %s\n", coachID)
	}
	return nil
}
