// ABOUTME: Session storage operations for SQLite
// ABOUTME: Implements CRUD and freshness updates for chat sessions
package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/atlascareer/atlas/internal/models"
)

// ErrNotFound means the requested row does not exist for that owner.
var ErrNotFound = errors.New("not found")

// SessionStore handles session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save inserts or updates a session
func (s *SessionStore) Save(session *models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, owner_id, title, created_at, updated_at, last_message_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			last_message_at = excluded.last_message_at
	`, session.ID, session.OwnerID, session.Title,
		session.CreatedAt, session.UpdatedAt, session.LastMessageAt)
	return err
}

// Get retrieves a session by ID, scoped to its owner
func (s *SessionStore) Get(ownerID, sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRow(`
		SELECT id, owner_id, title, created_at, updated_at, last_message_at
		FROM sessions
		WHERE id = ? AND owner_id = ?
	`, sessionID, ownerID).Scan(&session.ID, &session.OwnerID, &session.Title,
		&session.CreatedAt, &session.UpdatedAt, &session.LastMessageAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByOwner returns the owner's sessions, most recently active first
func (s *SessionStore) ListByOwner(ownerID string) ([]*models.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, title, created_at, updated_at, last_message_at
		FROM sessions
		WHERE owner_id = ?
		ORDER BY last_message_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(&session.ID, &session.OwnerID, &session.Title,
			&session.CreatedAt, &session.UpdatedAt, &session.LastMessageAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// TouchSession marks the session as active at the given time
func (s *SessionStore) TouchSession(sessionID string, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE sessions
		SET last_message_at = ?, updated_at = ?
		WHERE id = ?
	`, at, at, sessionID)
	return err
}

// Delete removes a session; its messages cascade
func (s *SessionStore) Delete(ownerID, sessionID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ? AND owner_id = ?", sessionID, ownerID)
	return err
}
