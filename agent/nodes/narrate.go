package nodes

import (
	"context"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
)

// Narrate feeds the recorded operation outcomes back to the reasoning
// engine so it words the final reply from what actually happened
// instead of guessing whether its requests succeeded.
func Narrate(ctx context.Context, in *GraphState, eng contractx.Engine, system string) (*GraphState, error) {
	reply, err := eng.Narrate(ctx, contractx.NarrateRequest{
		System:      system,
		History:     in.History,
		UserMessage: in.Text,
		Outcomes:    in.Outcomes,
	})
	if err != nil {
		return nil, err
	}
	in.Reply = reply
	return in, nil
}
