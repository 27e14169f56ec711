// Package nodes holds the individual transitions of the orchestration
// pass. Each function is one node of the pass graph; the graph wiring
// lives in agent/orchestrator.
package nodes

import (
	"errors"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
)

var (
	ErrInvalidOwner        = errors.New("owner id is required")
	ErrInvalidConversation = errors.New("conversation id is required")
	ErrInvalidMessage      = errors.New("message text is empty")
)

// GraphInput is one inbound user message bound to an authenticated
// owner and an existing conversation.
type GraphInput struct {
	OwnerID        uuid.UUID
	ConversationID uuid.UUID
	Text           string
}

// GraphState is carried through the pass. It lives for exactly one
// orchestration pass and is discarded afterwards.
type GraphState struct {
	OwnerID        uuid.UUID
	ConversationID uuid.UUID
	Text           string

	History  []contractx.Turn
	Plan     contractx.PlanResponse
	Outcomes []contractx.ToolOutcome
	Reply    string
}

// GraphOutput is the final reply plus the tool-call metadata recorded
// for observability on the assistant message.
type GraphOutput struct {
	Reply     string
	ToolCalls []convox.ToolCallMeta
}
