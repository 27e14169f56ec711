package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryTaskStoreListNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	for i, title := range []string{"oldest", "middle", "newest"} {
		created := taskx.New(owner, title, baseTime.Add(time.Duration(i)*time.Minute))
		if err := store.Insert(context.Background(), created); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	tasks, err := store.List(context.Background(), owner, taskx.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if tasks[i].Title != want[i] {
			t.Fatalf("tasks[%d] = %q, want %q", i, tasks[i].Title, want[i])
		}
	}
}

func TestMemoryTaskStoreListTieBreaksOnID(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	for _, title := range []string{"a", "b", "c"} {
		created := taskx.New(owner, title, baseTime)
		if err := store.Insert(context.Background(), created); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	tasks, err := store.List(context.Background(), owner, taskx.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Identical created_at falls back to id, descending, so repeated
	// listings and the SQL store agree on the order.
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].ID.String() < tasks[i].ID.String() {
			t.Fatalf("tasks[%d]=%s before tasks[%d]=%s, want id DESC on equal created_at",
				i-1, tasks[i-1].ID, i, tasks[i].ID)
		}
	}
}

func TestMemoryTaskStoreListScopedToOwner(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	other := uuid.New()
	if err := store.Insert(context.Background(), taskx.New(owner, "mine", baseTime)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Insert(context.Background(), taskx.New(other, "theirs", baseTime)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tasks, err := store.List(context.Background(), owner, taskx.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "mine" {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
}

func TestMemoryTaskStoreListFilterPartition(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	done := taskx.New(owner, "done", baseTime)
	done.Completed = true
	open := taskx.New(owner, "open", baseTime.Add(time.Minute))
	if err := store.Insert(context.Background(), done); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Insert(context.Background(), open); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	completed, err := store.List(context.Background(), owner, taskx.FilterCompleted)
	if err != nil {
		t.Fatalf("List(completed) error = %v", err)
	}
	incomplete, err := store.List(context.Background(), owner, taskx.FilterIncomplete)
	if err != nil {
		t.Fatalf("List(incomplete) error = %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "done" {
		t.Fatalf("unexpected completed partition: %#v", completed)
	}
	if len(incomplete) != 1 || incomplete[0].Title != "open" {
		t.Fatalf("unexpected incomplete partition: %#v", incomplete)
	}
}

func TestMemoryTaskStoreToggleRoundTrips(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	created := taskx.New(owner, "buy milk", baseTime)
	if err := store.Insert(context.Background(), created); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	toggled, err := store.ToggleCompleted(context.Background(), owner, created.ID, baseTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("ToggleCompleted() error = %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed after first toggle")
	}
	if !toggled.UpdatedAt.After(toggled.CreatedAt) {
		t.Fatalf("updated_at must advance: %v", toggled.UpdatedAt)
	}

	toggled, err = store.ToggleCompleted(context.Background(), owner, created.ID, baseTime.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("ToggleCompleted() error = %v", err)
	}
	if toggled.Completed {
		t.Fatal("expected incomplete after second toggle")
	}
}

func TestMemoryTaskStoreMutationsScopedToOwner(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	created := taskx.New(owner, "buy milk", baseTime)
	if err := store.Insert(context.Background(), created); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	stranger := uuid.New()
	if _, err := store.ToggleCompleted(context.Background(), stranger, created.ID, baseTime); !errors.Is(err, taskx.ErrNotFound) {
		t.Fatalf("ToggleCompleted by stranger: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Rename(context.Background(), stranger, created.ID, "stolen", baseTime); !errors.Is(err, taskx.ErrNotFound) {
		t.Fatalf("Rename by stranger: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Delete(context.Background(), stranger, created.ID); !errors.Is(err, taskx.ErrNotFound) {
		t.Fatalf("Delete by stranger: expected ErrNotFound, got %v", err)
	}

	// A missing id looks identical to a foreign one.
	if _, err := store.Delete(context.Background(), owner, uuid.New()); !errors.Is(err, taskx.ErrNotFound) {
		t.Fatalf("Delete of missing id: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryTaskStoreDeleteReturnsLastState(t *testing.T) {
	t.Parallel()

	store := NewMemoryTaskStore()
	owner := uuid.New()
	created := taskx.New(owner, "buy milk", baseTime)
	if err := store.Insert(context.Background(), created); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	deleted, err := store.Delete(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.Title != "buy milk" {
		t.Fatalf("unexpected deleted title: %q", deleted.Title)
	}
	if _, err := store.Delete(context.Background(), owner, created.ID); !errors.Is(err, taskx.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryConvoStoreGetScopedToOwner(t *testing.T) {
	t.Parallel()

	store := NewMemoryConvoStore()
	owner := uuid.New()
	c := convox.NewConversation(owner, baseTime)
	if err := store.InsertConversation(context.Background(), c); err != nil {
		t.Fatalf("InsertConversation() error = %v", err)
	}

	got, err := store.GetConversation(context.Background(), owner, c.ID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("unexpected conversation: %#v", got)
	}

	if _, err := store.GetConversation(context.Background(), uuid.New(), c.ID); !errors.Is(err, convox.ErrConversationNotFound) {
		t.Fatalf("foreign owner: expected ErrConversationNotFound, got %v", err)
	}
}

func TestMemoryConvoStoreTouchUpdatesTimestamp(t *testing.T) {
	t.Parallel()

	store := NewMemoryConvoStore()
	owner := uuid.New()
	c := convox.NewConversation(owner, baseTime)
	if err := store.InsertConversation(context.Background(), c); err != nil {
		t.Fatalf("InsertConversation() error = %v", err)
	}

	later := baseTime.Add(time.Hour)
	if err := store.TouchConversation(context.Background(), c.ID, later); err != nil {
		t.Fatalf("TouchConversation() error = %v", err)
	}

	got, err := store.GetConversation(context.Background(), owner, c.ID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	if err := store.TouchConversation(context.Background(), uuid.New(), later); !errors.Is(err, convox.ErrConversationNotFound) {
		t.Fatalf("touch of missing conversation: expected ErrConversationNotFound, got %v", err)
	}
}

func TestMemoryConvoStoreRecentMessages(t *testing.T) {
	t.Parallel()

	store := NewMemoryConvoStore()
	conversationID := uuid.New()
	for i := 0; i < 5; i++ {
		m := convox.NewMessage(conversationID, convox.RoleUser, string(rune('a'+i)), baseTime.Add(time.Duration(i)*time.Second))
		if err := store.AppendMessage(context.Background(), m); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	msgs, err := store.RecentMessages(context.Background(), conversationID, 3)
	if err != nil {
		t.Fatalf("RecentMessages() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []string{"c", "d", "e"}
	for i := range want {
		if msgs[i].Content != want[i] {
			t.Fatalf("msgs[%d] = %q, want %q (newest kept, oldest first)", i, msgs[i].Content, want[i])
		}
	}

	all, err := store.RecentMessages(context.Background(), conversationID, 0)
	if err != nil {
		t.Fatalf("RecentMessages(0) error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("limit 0 must return everything, got %d", len(all))
	}
}

func TestMemoryConvoStoreRecentMessagesTieBreaksOnID(t *testing.T) {
	t.Parallel()

	store := NewMemoryConvoStore()
	conversationID := uuid.New()
	for i := 0; i < 3; i++ {
		m := convox.NewMessage(conversationID, convox.RoleUser, "same instant", baseTime)
		if err := store.AppendMessage(context.Background(), m); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	msgs, err := store.RecentMessages(context.Background(), conversationID, 0)
	if err != nil {
		t.Fatalf("RecentMessages() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].ID.String() > msgs[i].ID.String() {
			t.Fatalf("msgs[%d]=%s before msgs[%d]=%s, want id ASC on equal created_at",
				i-1, msgs[i-1].ID, i, msgs[i].ID)
		}
	}
}
