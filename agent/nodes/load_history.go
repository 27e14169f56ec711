package nodes

import (
	"context"

	historyx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/history"
)

// LoadHistory reconstructs the conversation context from storage. The
// pass holds no memory of earlier requests, so this happens every time.
func LoadHistory(ctx context.Context, in *GraphState, reconstructor *historyx.Reconstructor) (*GraphState, error) {
	turns, err := reconstructor.Reconstruct(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	in.History = turns
	return in, nil
}
