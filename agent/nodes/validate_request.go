package nodes

import (
	"strings"

	"github.com/google/uuid"
)

// ValidateRequest checks the inbound message before anything touches
// the engine or storage.
func ValidateRequest(in GraphInput) (*GraphState, error) {
	if in.OwnerID == uuid.Nil {
		return nil, ErrInvalidOwner
	}
	if in.ConversationID == uuid.Nil {
		return nil, ErrInvalidConversation
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		OwnerID:        in.OwnerID,
		ConversationID: in.ConversationID,
		Text:           text,
	}, nil
}
