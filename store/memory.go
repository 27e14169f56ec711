package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
)

// MemoryTaskStore is a mutex-guarded twin of PostgresTaskStore for
// tests and database-free local runs. Semantics match exactly: one
// mutation per call, owner-scoped lookups, ErrNotFound for foreign ids.
type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]taskx.Task
}

var _ taskx.Store = (*MemoryTaskStore)(nil)

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[uuid.UUID]taskx.Task)}
}

func (s *MemoryTaskStore) Insert(ctx context.Context, t *taskx.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryTaskStore) List(ctx context.Context, ownerID uuid.UUID, filter taskx.Filter) ([]taskx.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []taskx.Task
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		switch filter {
		case taskx.FilterCompleted:
			if !t.Completed {
				continue
			}
		case taskx.FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	// Same ordering as the SQL store: created_at DESC, id DESC breaks
	// ties between tasks created in the same instant.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryTaskStore) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID, now time.Time) (*taskx.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, taskx.ErrNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = now.UTC()
	s.tasks[taskID] = t
	return &t, nil
}

func (s *MemoryTaskStore) Rename(ctx context.Context, ownerID, taskID uuid.UUID, title string, now time.Time) (*taskx.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, taskx.ErrNotFound
	}
	t.Title = title
	t.UpdatedAt = now.UTC()
	s.tasks[taskID] = t
	return &t, nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*taskx.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, taskx.ErrNotFound
	}
	delete(s.tasks, taskID)
	return &t, nil
}

// MemoryConvoStore is the in-memory twin of PostgresConvoStore.
type MemoryConvoStore struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]convox.Conversation
	messages      map[uuid.UUID][]convox.Message
}

var _ convox.Store = (*MemoryConvoStore)(nil)

func NewMemoryConvoStore() *MemoryConvoStore {
	return &MemoryConvoStore{
		conversations: make(map[uuid.UUID]convox.Conversation),
		messages:      make(map[uuid.UUID][]convox.Message),
	}
}

func (s *MemoryConvoStore) GetConversation(ctx context.Context, ownerID, id uuid.UUID) (*convox.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok || c.OwnerID != ownerID {
		return nil, convox.ErrConversationNotFound
	}
	return &c, nil
}

func (s *MemoryConvoStore) InsertConversation(ctx context.Context, c *convox.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.ID] = *c
	return nil
}

func (s *MemoryConvoStore) TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return convox.ErrConversationNotFound
	}
	c.UpdatedAt = at.UTC()
	s.conversations[id] = c
	return nil
}

func (s *MemoryConvoStore) AppendMessage(ctx context.Context, m *convox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], *m)
	return nil
}

func (s *MemoryConvoStore) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]convox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append([]convox.Message(nil), s.messages[conversationID]...)
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID.String() < msgs[j].ID.String()
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}
