// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines quiet and format flags shared by all commands
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	quiet        bool
	outputFormat string
	ownerID      string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Grounded career advisory assistant",
		Long: `Atlas is a career advisory assistant grounded in your own documents.

Ingest resumes, notes, and profiles, then chat: every answer is grounded
in the passages retrieved from what you uploaded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "auto" && outputFormat != "json" && outputFormat != "table" {
				return fmt.Errorf("invalid format %q (want auto, json, or table)", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")
	cmd.PersistentFlags().StringVar(&ownerID, "owner", "default", "Owner ID scoping all data access")

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewDocumentsCmd())
	cmd.AddCommand(NewMCPCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
