// ABOUTME: CLI command to append a message and run the ingestion pipeline
// ABOUTME: Embeds and classifies the message, then indexes it for analysis
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <conversation-id> <sender-id> <text>",
		Short: "Send a message into a conversation",
		Long: `Append a message to a conversation and index it for analysis.

The message is embedded and classified concurrently before the index write.
Empty text is skipped.

Examples:
  coach send conv_20260823_120000_ab12cd34 alice "dinner was great, thank you"`,
		Args: cobra.ExactArgs(3),
		RunE: runSend,
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	msg, err := a.service.IngestMessage(ctx, args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	if msg == nil {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Skipped empty message")
		}
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Sent %s\n", msg.ID)
	}
	return nil
}
