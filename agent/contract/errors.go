package contract

import "errors"

var (
	// ErrInvalidArguments marks tool arguments that fail schema
	// validation before any state is touched.
	ErrInvalidArguments = errors.New("invalid tool arguments")

	// ErrNotFound covers both a genuinely absent task id and an id
	// owned by another user. The two must stay indistinguishable.
	ErrNotFound = errors.New("task not found")

	// ErrUnknownTool is returned when the engine requests an operation
	// that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInternalTool marks a tool result that violates its own output
	// schema. It is a defect and is never shown to the user verbatim.
	ErrInternalTool = errors.New("tool output violates schema")

	// ErrEngineUnavailable is the only failure that aborts a whole
	// orchestration pass: the reasoning engine could not be reached or
	// returned a malformed response.
	ErrEngineUnavailable = errors.New("reasoning engine unavailable")
)
