// Package chat is the request-scoped entry point the transport layer
// calls: it owns the durable side of a turn (conversation row, user and
// assistant messages) around exactly one orchestration pass.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	orchestratorx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/orchestrator"
)

type Service struct {
	convos convox.Store
	orch   *orchestratorx.Orchestrator

	now func() time.Time
}

func NewService(convos convox.Store, orch *orchestratorx.Orchestrator) (*Service, error) {
	if convos == nil {
		return nil, errors.New("conversation store is required")
	}
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	return &Service{
		convos: convos,
		orch:   orch,
		now:    time.Now,
	}, nil
}

// Input carries what the (already authenticated) transport layer knows:
// the verified owner id, the free-text message, and optionally an
// existing conversation id. A nil conversation id means "start one".
type Input struct {
	OwnerID        uuid.UUID
	ConversationID uuid.UUID
	Text           string
}

type Output struct {
	Reply          string
	ConversationID uuid.UUID
	Timestamp      time.Time
}

// HandleMessage runs one full turn: resolve or lazily create the
// conversation, persist the user message, run the orchestration pass,
// persist the assistant reply, and touch the conversation.
func (s *Service) HandleMessage(ctx context.Context, in Input) (*Output, error) {
	conversation, err := s.resolveConversation(ctx, in)
	if err != nil {
		return nil, err
	}

	userMsg := convox.NewMessage(conversation.ID, convox.RoleUser, in.Text, s.now())
	if err := s.convos.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	result, err := s.orch.Run(ctx, in.OwnerID, conversation.ID, in.Text)
	if err != nil {
		return nil, err
	}

	// The apology path is persisted like any other assistant turn,
	// so the stored transcript matches what the user saw.
	assistantMsg := convox.NewMessage(conversation.ID, convox.RoleAssistant, result.Reply, s.now())
	assistantMsg.ToolCalls = result.ToolCalls
	if err := s.convos.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}
	if err := s.convos.TouchConversation(ctx, conversation.ID, assistantMsg.CreatedAt); err != nil {
		return nil, err
	}

	log.Info().
		Str("conversation_id", conversation.ID.String()).
		Bool("engine_failed", result.EngineFailed).
		Int("tool_calls", len(result.ToolCalls)).
		Msg("chat turn completed")

	return &Output{
		Reply:          result.Reply,
		ConversationID: conversation.ID,
		Timestamp:      assistantMsg.CreatedAt,
	}, nil
}

// resolveConversation loads the caller's conversation or lazily creates
// one when no id was supplied. A conversation owned by someone else is
// indistinguishable from a missing one.
func (s *Service) resolveConversation(ctx context.Context, in Input) (*convox.Conversation, error) {
	if in.ConversationID != uuid.Nil {
		return s.convos.GetConversation(ctx, in.OwnerID, in.ConversationID)
	}

	conversation := convox.NewConversation(in.OwnerID, s.now())
	if err := s.convos.InsertConversation(ctx, conversation); err != nil {
		return nil, err
	}
	log.Info().
		Str("conversation_id", conversation.ID.String()).
		Msg("created new conversation")
	return conversation, nil
}
