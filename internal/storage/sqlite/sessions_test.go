// ABOUTME: Tests for session storage operations
// ABOUTME: Verifies CRUD, owner scoping, and freshness updates

package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/atlascareer/atlas/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)

	session := models.NewSession("alice", "Career planning")
	if err := store.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get("alice", session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Career planning" || got.OwnerID != "alice" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestSessionStore_GetScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)

	session := models.NewSession("alice", "")
	if err := store.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := store.Get("bob", session.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() with wrong owner error = %v, want ErrNotFound", err)
	}
}

func TestSessionStore_DefaultTitle(t *testing.T) {
	session := models.NewSession("alice", "")
	if session.Title != models.DefaultSessionTitle {
		t.Errorf("Title = %q, want %q", session.Title, models.DefaultSessionTitle)
	}
}

func TestSessionStore_ListByOwnerOrdersByActivity(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)

	older := models.NewSession("alice", "older")
	older.LastMessageAt = time.Now().UTC().Add(-time.Hour)
	newer := models.NewSession("alice", "newer")
	other := models.NewSession("bob", "not alice's")

	for _, s := range []*models.Session{older, newer, other} {
		if err := store.Save(s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	sessions, err := store.ListByOwner("alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListByOwner() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].Title != "newer" || sessions[1].Title != "older" {
		t.Errorf("sessions out of order: %q, %q", sessions[0].Title, sessions[1].Title)
	}
}

func TestSessionStore_TouchSession(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)

	session := models.NewSession("alice", "")
	session.LastMessageAt = time.Now().UTC().Add(-time.Hour)
	if err := store.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	now := time.Now().UTC()
	if err := store.TouchSession(session.ID, now); err != nil {
		t.Fatalf("TouchSession() error = %v", err)
	}

	got, err := store.Get("alice", session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LastMessageAt.Before(now.Add(-time.Second)) {
		t.Errorf("LastMessageAt = %v, want ~%v", got.LastMessageAt, now)
	}
}

func TestSessionStore_DeleteCascadesToMessages(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	messages := NewMessageStore(db)

	session := models.NewSession("alice", "")
	if err := sessions.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	msg, err := models.NewChatMessage(session.ID, "alice", models.RoleUser, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if err := messages.SaveMessage(msg); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}

	if err := sessions.Delete("alice", session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	remaining, err := messages.ListBySession("alice", session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("messages survived session delete: %d", len(remaining))
	}
}
