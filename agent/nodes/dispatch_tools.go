package nodes

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/tool"
)

// DispatchTools executes the engine's operation requests strictly in
// the order they were emitted, one after another: a later request may
// depend on the side effects of an earlier one. The caller's owner id
// is forced into every argument map; the engine is never trusted to
// supply one. Individual failures become outcome records so the engine
// can explain them in the final turn; they never abort the pass.
func DispatchTools(ctx context.Context, in *GraphState, registry *toolx.Registry) (*GraphState, error) {
	outcomes := make([]contractx.ToolOutcome, 0, len(in.Plan.ToolCalls))

	for _, call := range in.Plan.ToolCalls {
		args := make(map[string]any, len(call.Args)+1)
		for k, v := range call.Args {
			args[k] = v
		}
		args["owner_id"] = in.OwnerID.String()

		result, err := registry.Invoke(ctx, call.Tool, args)
		if err != nil {
			log.Warn().
				Str("tool", call.Tool).
				Str("conversation_id", in.ConversationID.String()).
				Err(err).
				Msg("tool dispatch failed")
			outcomes = append(outcomes, contractx.ToolOutcome{
				Tool:  call.Tool,
				Error: summarizeFailure(err),
			})
			continue
		}

		log.Info().
			Str("tool", call.Tool).
			Str("conversation_id", in.ConversationID.String()).
			Msg("tool executed")
		outcomes = append(outcomes, contractx.ToolOutcome{
			Tool:   call.Tool,
			Result: result,
		})
	}

	in.Outcomes = outcomes
	return in, nil
}

// summarizeFailure converts a dispatch error into a summary safe to
// hand back to the reasoning engine. Internal defects and storage
// errors keep their detail in the logs only.
func summarizeFailure(err error) string {
	switch {
	case errors.Is(err, contractx.ErrInvalidArguments):
		return err.Error()
	case errors.Is(err, contractx.ErrNotFound):
		return "task not found"
	case errors.Is(err, contractx.ErrUnknownTool):
		return "this operation is not available"
	case errors.Is(err, contractx.ErrInternalTool):
		return "the operation could not be completed"
	default:
		return "the operation failed, please try again"
	}
}
