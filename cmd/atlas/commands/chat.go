// ABOUTME: CLI command to run one advisory chat turn
// ABOUTME: Creates a session on first use and prints the grounded answer
package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlascareer/atlas/internal/chat"
	"github.com/atlascareer/atlas/internal/models"
)

var chatSession string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the career advisor",
		Long: `Send a message to the career advisor.

Relevant passages are retrieved from the owner's ingested documents and
the answer is grounded in them. Without --session a new session is
created and its ID printed, so follow-up turns can continue it.

Examples:
  atlas chat "What should I learn to move into data engineering?"
  atlas chat --session sess_123 "And which of those first?"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatSession, "session", "", "Session ID to continue")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	message := args[0]

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := chatSession
	if sessionID == "" {
		session := models.NewSession(ownerID, "")
		if err := a.sessions.Save(session); err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = session.ID
	}

	result, err := a.orchestrator.RunTurn(cmd.Context(), sessionID, ownerID, message)
	if err != nil {
		var turnErr *chat.TurnError
		if errors.As(err, &turnErr) {
			return fmt.Errorf("chat turn failed after %s: %w", turnErr.State, turnErr.Err)
		}
		return err
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"session_id": sessionID,
			"response":   result.AssistantMessage.Content,
			"context":    result.AssistantMessage.RetrievedContext,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet && chatSession == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\n\n", sessionID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.AssistantMessage.Content)
	return nil
}
