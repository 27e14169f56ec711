package nodes

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
)

// Plan submits the system instructions, reconstructed history, and the
// new user message to the reasoning engine and records its decision.
func Plan(ctx context.Context, in *GraphState, eng contractx.Engine, system string) (*GraphState, error) {
	resp, err := eng.Plan(ctx, contractx.PlanRequest{
		System:      system,
		History:     in.History,
		UserMessage: in.Text,
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("conversation_id", in.ConversationID.String()).
		Int("tool_calls", len(resp.ToolCalls)).
		Msg("engine plan received")

	in.Plan = resp
	return in, nil
}
