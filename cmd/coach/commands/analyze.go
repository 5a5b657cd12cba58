// ABOUTME: CLI command to run one analysis and post the result to the coach chat
// ABOUTME: Validates the kind up front; gated kinds depend on relationship type
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/coach-standalone/internal/core"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <kind> <coach-conversation-id> <parent-conversation-id>",
		Short: "Run an analysis and post it to the coach chat",
		Long: `Run one analysis over the parent conversation and post the coach's reply.

Kinds: ratio, horsemen, lovemap, shared_interests, bids, rupture_repair,
topic_champion (group only), energy (group only), checkin (platonic only).

Conversations below the message floor get an informational reply instead of
an analysis.

Examples:
  coach analyze ratio conv_..._coach conv_..._parent
  coach analyze lovemap conv_..._coach conv_..._parent`,
		Args: cobra.ExactArgs(3),
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	kind, err := core.ParseAnalysisKind(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	reply, err := a.service.Analyze(ctx, kind, args[1], args[2])
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), reply)
	}
	return nil
}
