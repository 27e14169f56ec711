package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	storex "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/store"
)

func seedMessages(t *testing.T, store convox.Store, conversationID uuid.UUID, count int, base time.Time) {
	t.Helper()
	for i := 0; i < count; i++ {
		role := convox.RoleUser
		if i%2 == 1 {
			role = convox.RoleAssistant
		}
		m := convox.NewMessage(conversationID, role, fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Second))
		if err := store.AppendMessage(context.Background(), m); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}
}

func TestReconstructOrderAndRoles(t *testing.T) {
	t.Parallel()

	store := storex.NewMemoryConvoStore()
	conversationID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(t, store, conversationID, 4, base)

	turns, err := NewReconstructor(store, 0).Reconstruct(context.Background(), conversationID)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		wantRole := contractx.RoleHuman
		if i%2 == 1 {
			wantRole = contractx.RoleAgent
		}
		if turn.Role != wantRole {
			t.Fatalf("turns[%d].Role = %q, want %q", i, turn.Role, wantRole)
		}
		if turn.Text != fmt.Sprintf("message %d", i) {
			t.Fatalf("turns[%d].Text = %q (history must be oldest first)", i, turn.Text)
		}
	}
}

func TestReconstructTruncatesOldest(t *testing.T) {
	t.Parallel()

	store := storex.NewMemoryConvoStore()
	conversationID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(t, store, conversationID, 6, base)

	turns, err := NewReconstructor(store, 2).Reconstruct(context.Background(), conversationID)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Text != "message 4" || turns[1].Text != "message 5" {
		t.Fatalf("truncation must keep the newest turns, got %#v", turns)
	}
}

func TestReconstructEmptyConversation(t *testing.T) {
	t.Parallel()

	store := storex.NewMemoryConvoStore()
	turns, err := NewReconstructor(store, 0).Reconstruct(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(turns))
	}
}

func TestReconstructUnknownRoleFails(t *testing.T) {
	t.Parallel()

	store := storex.NewMemoryConvoStore()
	conversationID := uuid.New()
	m := convox.NewMessage(conversationID, convox.Role("system"), "intruder", time.Now())
	if err := store.AppendMessage(context.Background(), m); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}

	_, err := NewReconstructor(store, 0).Reconstruct(context.Background(), conversationID)
	if !errors.Is(err, convox.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestNewReconstructorDefaultsLimit(t *testing.T) {
	t.Parallel()

	r := NewReconstructor(storex.NewMemoryConvoStore(), -5)
	if r.maxMessages != DefaultMaxMessages {
		t.Fatalf("expected default limit %d, got %d", DefaultMaxMessages, r.maxMessages)
	}
}
