package contract

// Role is the reasoning engine's role vocabulary. Stored message roles
// are translated into these before any engine call.
type Role string

const (
	RoleHuman Role = "human"
	RoleAgent Role = "agent"
)

// Turn is one (speaker, text) pair of reconstructed history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ToolCall is one structured operation request emitted by the engine.
// It lives for a single orchestration pass and is never persisted.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolOutcome records the result of dispatching one ToolCall. Failures
// are captured here as a safe summary instead of aborting the pass.
type ToolOutcome struct {
	Tool   string         `json:"tool"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// PlanRequest is the first engine call: decide what, if anything, to do.
type PlanRequest struct {
	System      string `json:"system"`
	History     []Turn `json:"history,omitempty"`
	UserMessage string `json:"user_message"`
}

// PlanResponse carries the engine's reply text and zero or more
// operation requests. Text may be empty when tool calls are present.
type PlanResponse struct {
	Message   string     `json:"message,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NarrateRequest is the second engine call: word a final reply from the
// real operation outcomes.
type NarrateRequest struct {
	System      string        `json:"system"`
	History     []Turn        `json:"history,omitempty"`
	UserMessage string        `json:"user_message"`
	Outcomes    []ToolOutcome `json:"outcomes"`
}
