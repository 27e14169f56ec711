package convo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrUnknownRole marks a stored message role outside the
	// user/assistant vocabulary. It is a data-integrity defect and must
	// fail loudly instead of being dropped.
	ErrUnknownRole = errors.New("unknown message role")
)

// Role is the stored speaker label on a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation groups messages for one owner. The owner never changes
// after creation.
type Conversation struct {
	bun.BaseModel `bun:"table:conversations"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OwnerID   uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// NewConversation creates a conversation owned by ownerID.
func NewConversation(ownerID uuid.UUID, now time.Time) *Conversation {
	now = now.UTC()
	return &Conversation{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ToolCallMeta describes one operation invoked while producing an
// assistant message. Stored for observability only, never re-parsed to
// drive behavior.
type ToolCallMeta struct {
	Tool  string         `json:"tool"`
	Args  map[string]any `json:"args,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Message is immutable once persisted. Messages are totally ordered by
// CreatedAt within a conversation.
type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	ConversationID uuid.UUID      `bun:"conversation_id,notnull,type:uuid" json:"conversation_id"`
	Role           Role           `bun:"role,notnull" json:"role"`
	Content        string         `bun:"content,notnull" json:"content"`
	CreatedAt      time.Time      `bun:"created_at,notnull" json:"created_at"`
	ToolCalls      []ToolCallMeta `bun:"tool_calls,type:jsonb,nullzero" json:"tool_calls,omitempty"`
}

// NewMessage builds a message for a conversation.
func NewMessage(conversationID uuid.UUID, role Role, content string, now time.Time) *Message {
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now.UTC(),
	}
}

// Store is the persistence contract for conversations and messages.
// RecentMessages returns at most limit messages, the most recent ones,
// in chronological (oldest first) order.
type Store interface {
	GetConversation(ctx context.Context, ownerID, id uuid.UUID) (*Conversation, error)
	InsertConversation(ctx context.Context, c *Conversation) error
	TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error
	AppendMessage(ctx context.Context, m *Message) error
	RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error)
}
