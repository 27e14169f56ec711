package contract

import "context"

// Engine is the external reasoning engine. Plan may return tool calls;
// Narrate only ever returns text. Both are blocking round-trips and any
// transport or schema failure must be reported as ErrEngineUnavailable.
type Engine interface {
	Plan(ctx context.Context, req PlanRequest) (PlanResponse, error)
	Narrate(ctx context.Context, req NarrateRequest) (string, error)
}
