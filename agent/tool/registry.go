package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
)

// Registry maps operation names to contracts for one orchestration
// pass. It owns no cross-call state; build a fresh one per pass.
type Registry struct {
	tools map[string]Contract
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Contract)}
}

// Register adds a contract under its name. A duplicate name is a
// configuration defect, not a runtime condition: the previous contract
// is overwritten and a warning is logged.
func (r *Registry) Register(c Contract) {
	name := c.Name()
	if _, exists := r.tools[name]; exists {
		log.Warn().Str("tool", name).Msg("tool already registered, overwriting")
	} else {
		r.order = append(r.order, name)
	}
	r.tools[name] = c
}

// Get returns the contract registered under name.
func (r *Registry) Get(name string) (Contract, error) {
	c, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownTool, name)
	}
	return c, nil
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Infos renders the registry as the operations catalog handed to the
// reasoning engine.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		c := r.tools[name]
		infos = append(infos, &schema.ToolInfo{
			Name:        c.Name(),
			Desc:        c.Description(),
			ParamsOneOf: schema.NewParamsOneOfByParams(c.Params()),
		})
	}
	return infos
}

// Invoke runs the uniform invocation protocol: validate arguments
// against the input schema, execute, validate the result against the
// output schema. Validation always happens before any state mutation.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := validateArgs(c.Params(), args); err != nil {
		return nil, err
	}

	out, err := c.Execute(ctx, args)
	if err != nil {
		return nil, err
	}

	if err := validateResult(c.Results(), out); err != nil {
		return nil, fmt.Errorf("%w: tool=%s: %v", contractx.ErrInternalTool, name, err)
	}
	return out, nil
}
