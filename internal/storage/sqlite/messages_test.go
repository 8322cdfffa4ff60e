// ABOUTME: Tests for message storage operations
// ABOUTME: Verifies chronological listing and the retrieved-context round trip

package sqlite

import (
	"testing"
	"time"

	"github.com/atlascareer/atlas/internal/models"
)

func saveTestSession(t *testing.T, db *DB, ownerID string) *models.Session {
	t.Helper()
	session := models.NewSession(ownerID, "")
	if err := NewSessionStore(db).Save(session); err != nil {
		t.Fatalf("Save session error = %v", err)
	}
	return session
}

func TestMessageStore_SaveAndListInOrder(t *testing.T) {
	db := openTestDB(t)
	store := NewMessageStore(db)
	session := saveTestSession(t, db, "alice")

	first, err := models.NewChatMessage(session.ID, "alice", models.RoleUser, "what should I learn?")
	if err != nil {
		t.Fatal(err)
	}
	second, err := models.NewChatMessage(session.ID, "alice", models.RoleAssistant, "learn SQL")
	if err != nil {
		t.Fatal(err)
	}
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	if err := store.SaveMessage(second); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}
	if err := store.SaveMessage(first); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}

	messages, err := store.ListBySession("alice", session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("ListBySession() returned %d messages, want 2", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[1].Role != models.RoleAssistant {
		t.Errorf("messages out of chronological order: %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestMessageStore_RetrievedContextRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewMessageStore(db)
	session := saveTestSession(t, db, "alice")

	msg, err := models.NewChatMessage(session.ID, "alice", models.RoleAssistant, "advice")
	if err != nil {
		t.Fatal(err)
	}
	msg.RetrievedContext = []string{"three years as analyst", "knows Python"}
	if err := store.SaveMessage(msg); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}

	messages, err := store.ListBySession("alice", session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	got := messages[0].RetrievedContext
	if len(got) != 2 || got[0] != "three years as analyst" || got[1] != "knows Python" {
		t.Errorf("RetrievedContext = %v, order or content lost", got)
	}
}

func TestMessageStore_NoContextStaysEmpty(t *testing.T) {
	db := openTestDB(t)
	store := NewMessageStore(db)
	session := saveTestSession(t, db, "alice")

	msg, err := models.NewChatMessage(session.ID, "alice", models.RoleUser, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMessage(msg); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}

	messages, err := store.ListBySession("alice", session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(messages[0].RetrievedContext) != 0 {
		t.Errorf("RetrievedContext = %v, want empty", messages[0].RetrievedContext)
	}
}

func TestMessageStore_ListScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	store := NewMessageStore(db)
	session := saveTestSession(t, db, "alice")

	msg, err := models.NewChatMessage(session.ID, "alice", models.RoleUser, "secret plans")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMessage(msg); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}

	messages, err := store.ListBySession("bob", session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("another owner read %d messages", len(messages))
	}
}
