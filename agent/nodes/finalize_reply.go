package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
)

// FinalizeReply picks the pass result: the narrated reply when tools
// ran, otherwise the engine's direct answer from the plan call.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	reply := in.Reply
	if len(in.Plan.ToolCalls) == 0 {
		reply = in.Plan.Message
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: empty final reply", contractx.ErrEngineUnavailable)
	}

	return GraphOutput{
		Reply:     reply,
		ToolCalls: toolCallMeta(in),
	}, nil
}

// toolCallMeta records what was invoked for observability on the
// persisted assistant message. It is never re-parsed to drive behavior.
func toolCallMeta(in *GraphState) []convox.ToolCallMeta {
	if len(in.Plan.ToolCalls) == 0 {
		return nil
	}
	meta := make([]convox.ToolCallMeta, 0, len(in.Plan.ToolCalls))
	for i, call := range in.Plan.ToolCalls {
		m := convox.ToolCallMeta{Tool: call.Tool, Args: call.Args}
		if i < len(in.Outcomes) {
			m.Error = in.Outcomes[i].Error
		}
		meta = append(meta, m)
	}
	return meta
}
