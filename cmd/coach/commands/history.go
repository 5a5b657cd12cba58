// ABOUTME: CLI command to read a coach conversation transcript
// ABOUTME: Analysis replies are fetched by re-reading the coach conversation
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var historyLimit int

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <coach-conversation-id>",
		Short: "Show a coach conversation transcript",
		Long: `Read the coach conversation transcript oldest-to-newest.

Examples:
  coach history conv_20260823_120000_ab12cd34
  coach history --limit 5 conv_20260823_120000_ab12cd34`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum messages to show (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if historyLimit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", historyLimit)
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.service.GetCoachHistory(args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(history) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages yet")
		}
		return nil
	}

	for _, m := range history {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", formatTime(m.CreatedAt), m.SenderID, m.Text)
	}
	return nil
}
