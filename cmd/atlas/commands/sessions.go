// ABOUTME: CLI commands to list sessions and show their message history
// ABOUTME: History replays each turn with the context that grounded it
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlascareer/atlas/internal/models"
)

var showContext bool

// NewSessionsCmd creates the sessions command group
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsDeleteCmd())

	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recently active first",
		RunE:  runSessionsList,
	}
}

func newSessionsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's message history",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsShow,
	}
	cmd.Flags().BoolVar(&showContext, "context", false, "Show the retrieved context behind each answer")
	return cmd
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsDelete,
	}
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := a.sessions.ListByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(sessions) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tLAST ACTIVE\n")
	for _, session := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", session.ID, session.Title, formatTime(session.LastMessageAt))
	}
	return w.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := args[0]
	if _, err := a.sessions.Get(ownerID, sessionID); err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	messages, err := a.messages.ListBySession(ownerID, sessionID)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	for _, msg := range messages {
		label := "You"
		if msg.Role == models.RoleAssistant {
			label = "Atlas"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", msg.CreatedAt.Format(time.Kitchen), label, msg.Content)
		if showContext && len(msg.RetrievedContext) > 0 {
			for _, passage := range msg.RetrievedContext {
				fmt.Fprintf(cmd.OutOrStdout(), "    > %s\n", truncate(passage, 100))
			}
		}
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sessions.Delete(ownerID, args[0]); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	}
	return nil
}
