package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
)

// Contract defines one operation: its catalog entry for the reasoning
// engine (name, description, parameter schema), its result schema, and
// its execution against persisted task state. Execute receives
// arguments that already passed Params validation and must apply its
// mutation atomically or not at all.
type Contract interface {
	Name() string
	Description() string
	Params() map[string]*schema.ParameterInfo
	Results() map[string]*schema.ParameterInfo
	Execute(ctx context.Context, args map[string]any) (map[string]any, error)
}

// validateArgs checks raw arguments against the declared parameter
// schema before any state is touched. Unknown keys, missing required
// parameters, and mistyped values all fail with ErrInvalidArguments.
func validateArgs(params map[string]*schema.ParameterInfo, args map[string]any) error {
	for key := range args {
		if _, ok := params[key]; !ok {
			return fmt.Errorf("%w: unknown argument %q", contractx.ErrInvalidArguments, key)
		}
	}
	for key, p := range params {
		val, ok := args[key]
		if !ok {
			if p.Required {
				return fmt.Errorf("%w: missing required argument %q", contractx.ErrInvalidArguments, key)
			}
			continue
		}
		if err := checkKind(p.Type, val); err != nil {
			return fmt.Errorf("%w: argument %q %v", contractx.ErrInvalidArguments, key, err)
		}
	}
	return nil
}

// validateResult checks an execution result against the declared result
// schema. A mismatch here is an internal defect, not a tool failure.
func validateResult(results map[string]*schema.ParameterInfo, out map[string]any) error {
	if out == nil {
		return fmt.Errorf("nil result")
	}
	for key, p := range results {
		val, ok := out[key]
		if !ok {
			if p.Required {
				return fmt.Errorf("missing result field %q", key)
			}
			continue
		}
		if err := checkKind(p.Type, val); err != nil {
			return fmt.Errorf("result field %q %v", key, err)
		}
	}
	return nil
}

func checkKind(kind schema.DataType, val any) error {
	switch kind {
	case schema.String:
		if _, ok := val.(string); !ok {
			return fmt.Errorf("must be a string, got %T", val)
		}
	case schema.Boolean:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("must be a boolean, got %T", val)
		}
	case schema.Integer:
		switch val.(type) {
		case int, int32, int64, float64:
		default:
			return fmt.Errorf("must be an integer, got %T", val)
		}
	case schema.Array:
		switch val.(type) {
		case []any, []map[string]any:
		default:
			return fmt.Errorf("must be an array, got %T", val)
		}
	}
	return nil
}
