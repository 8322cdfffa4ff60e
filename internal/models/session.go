// ABOUTME: Session groups chat messages for one owner into a conversation
// ABOUTME: LastMessageAt tracks freshness and orders the session list
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is used when a session is created without a title.
const DefaultSessionTitle = "New Conversation"

// Session is a conversation container owned by a single user.
type Session struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// NewSession creates a session for the given owner.
func NewSession(ownerID, title string) *Session {
	if title == "" {
		title = DefaultSessionTitle
	}
	now := time.Now().UTC()
	return &Session{
		ID:            "sess_" + uuid.New().String(),
		OwnerID:       ownerID,
		Title:         title,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastMessageAt: now,
	}
}
