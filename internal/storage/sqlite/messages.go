// ABOUTME: Chat message storage operations for SQLite
// ABOUTME: Persists messages with the retrieved context as a JSON column
package sqlite

import (
	"database/sql"
	"encoding/json"

	"github.com/atlascareer/atlas/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// SaveMessage inserts a message. Messages are append-only; there is no update.
func (s *MessageStore) SaveMessage(msg *models.ChatMessage) error {
	var contextJSON sql.NullString
	if len(msg.RetrievedContext) > 0 {
		data, err := json.Marshal(msg.RetrievedContext)
		if err != nil {
			return err
		}
		contextJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO messages (id, session_id, owner_id, role, content, retrieved_context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.OwnerID, string(msg.Role), msg.Content,
		contextJSON, msg.CreatedAt)
	return err
}

// ListBySession returns a session's messages in chronological order
func (s *MessageStore) ListBySession(ownerID, sessionID string) ([]*models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, owner_id, role, content, retrieved_context, created_at
		FROM messages
		WHERE session_id = ? AND owner_id = ?
		ORDER BY created_at ASC, id ASC
	`, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []*models.ChatMessage
	for rows.Next() {
		var (
			msg         models.ChatMessage
			role        string
			contextJSON sql.NullString
		)

		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.OwnerID, &role,
			&msg.Content, &contextJSON, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = models.Role(role)

		if contextJSON.Valid && contextJSON.String != "" {
			if err := json.Unmarshal([]byte(contextJSON.String), &msg.RetrievedContext); err != nil {
				msg.RetrievedContext = nil
			}
		}

		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// DeleteBySession removes all messages in a session
func (s *MessageStore) DeleteBySession(ownerID, sessionID string) error {
	_, err := s.db.Exec("DELETE FROM messages WHERE session_id = ? AND owner_id = ?", sessionID, ownerID)
	return err
}
