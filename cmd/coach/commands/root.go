// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the coach command tree and shared verbose/quiet/format flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	formatFlag string
)

const banner = `
 ██████╗ ██████╗  █████╗  ██████╗██╗  ██╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝██║  ██║
██║     ██║   ██║███████║██║     ███████║
██║     ██║   ██║██╔══██║██║     ██╔══██║
╚██████╗╚██████╔╝██║  ██║╚██████╗██║  ██║
 ╚═════╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Conversation analytics and relationship coaching",
		Long: banner + `
Coach ingests chat messages, classifies their sentiment and communication
patterns, and synthesizes coaching replies grounded in conversation analytics.

Messages live in a local SQLite store; embeddings live in a Charm KV backed
vector index. Analyses run over a bounded recent window and post their result
to a dedicated coach conversation.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&formatFlag, "format", "auto", "Output format (auto, text, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewNewCmd(),
		NewSendCmd(),
		NewStartCmd(),
		NewAnalyzeCmd(),
		NewHistoryCmd(),
		NewProfileCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
