// Package orchestrator runs one orchestration pass: one user message
// in, one final reply out, with the reasoning engine consulted twice
// around a sequential tool-dispatch phase. No state survives a pass.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	historyx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/history"
	nodex "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/nodes"
	promptx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/prompt"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
	toolx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/tool"
)

var (
	ErrInvalidOwner        = nodex.ErrInvalidOwner
	ErrInvalidConversation = nodex.ErrInvalidConversation
	ErrInvalidMessage      = nodex.ErrInvalidMessage
)

// Apology is the fixed reply returned when the reasoning engine itself
// fails. Raw engine or storage detail never reaches the user.
const Apology = "I'm having trouble processing your request right now. Please try again in a moment."

type Config struct {
	// MaxHistory bounds the number of messages handed to the engine.
	// Zero means the default of 100.
	MaxHistory int
}

type Orchestrator struct {
	engine        contractx.Engine
	tasks         taskx.Store
	reconstructor *historyx.Reconstructor
	system        string

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(engine contractx.Engine, tasks taskx.Store, convos convox.Store, cfg Config) (*Orchestrator, error) {
	if engine == nil {
		return nil, errors.New("reasoning engine is required")
	}
	if tasks == nil {
		return nil, errors.New("task store is required")
	}
	if convos == nil {
		return nil, errors.New("conversation store is required")
	}

	o := &Orchestrator{
		engine:        engine,
		tasks:         tasks,
		reconstructor: historyx.NewReconstructor(convos, cfg.MaxHistory),
		system:        promptx.Assistant(),
		now:           time.Now,
	}

	graphRunner, err := o.compilePassGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Result is what one pass hands back to the caller.
type Result struct {
	Reply     string
	ToolCalls []convox.ToolCallMeta

	// EngineFailed is set when the pass ended in the apology path.
	EngineFailed bool
}

// Run executes one orchestration pass. Engine unavailability is
// absorbed here into the fixed apology; every other failure (bad
// input, storage, data integrity) propagates to the caller.
func (o *Orchestrator) Run(ctx context.Context, ownerID, conversationID uuid.UUID, text string) (Result, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		OwnerID:        ownerID,
		ConversationID: conversationID,
		Text:           text,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrEngineUnavailable) {
			log.Error().
				Str("conversation_id", conversationID.String()).
				Err(err).
				Msg("reasoning engine failed, returning apology")
			return Result{Reply: Apology, EngineFailed: true}, nil
		}
		return Result{}, err
	}

	return Result{
		Reply:     out.Reply,
		ToolCalls: out.ToolCalls,
	}, nil
}

func (o *Orchestrator) newRegistry() *toolx.Registry {
	return toolx.DefaultRegistry(o.tasks, o.now)
}
