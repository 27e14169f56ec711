// Package history rebuilds the ordered message sequence of a
// conversation from persisted storage, translated into the reasoning
// engine's role vocabulary. There is no server-side conversation
// memory: this runs from scratch on every orchestration pass.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
)

// DefaultMaxMessages caps the context handed to the reasoning engine.
const DefaultMaxMessages = 100

type Reconstructor struct {
	store       convox.Store
	maxMessages int
}

func NewReconstructor(store convox.Store, maxMessages int) *Reconstructor {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Reconstructor{store: store, maxMessages: maxMessages}
}

// Reconstruct returns the conversation's turns oldest first, truncated
// to the most recent maxMessages. Truncation always drops the oldest
// messages so recency-relevant context survives.
func (r *Reconstructor) Reconstruct(ctx context.Context, conversationID uuid.UUID) ([]contractx.Turn, error) {
	msgs, err := r.store.RecentMessages(ctx, conversationID, r.maxMessages)
	if err != nil {
		return nil, fmt.Errorf("load conversation history: %w", err)
	}

	turns := make([]contractx.Turn, 0, len(msgs))
	for _, m := range msgs {
		role, err := translateRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		turns = append(turns, contractx.Turn{Role: role, Text: m.Content})
	}
	return turns, nil
}

// translateRole maps stored roles onto the engine vocabulary. Any other
// stored value is a data-integrity defect and fails loudly.
func translateRole(role convox.Role) (contractx.Role, error) {
	switch role {
	case convox.RoleUser:
		return contractx.RoleHuman, nil
	case convox.RoleAssistant:
		return contractx.RoleAgent, nil
	default:
		return "", fmt.Errorf("%w: %q", convox.ErrUnknownRole, role)
	}
}
