// ABOUTME: ChatMessage represents one side of a chat exchange within a session
// ABOUTME: Assistant messages carry the retrieved context used to ground them
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single persisted message in a chat session.
//
// For assistant messages, RetrievedContext is exactly the ordered list of
// passage texts that passed the similarity threshold for that turn. Replaying
// Content against RetrievedContext with the same provider and prompt template
// must reproduce the turn; that audit trail is why the field is stored at all.
type ChatMessage struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	OwnerID          string    `json:"owner_id"`
	Role             Role      `json:"role"`
	Content          string    `json:"content"`
	RetrievedContext []string  `json:"retrieved_context,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewChatMessage creates a validated ChatMessage with a generated ID.
func NewChatMessage(sessionID, ownerID string, role Role, content string) (*ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return &ChatMessage{
		ID:        generateMessageID(),
		SessionID: sessionID,
		OwnerID:   ownerID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func generateMessageID() string {
	return "msg_" + uuid.New().String()
}
