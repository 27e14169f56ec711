// Package engine adapts an OpenRouter-hosted chat model to the two
// call shapes the orchestration pass needs: plan (may request tools)
// and narrate (words a final reply from real tool outcomes).
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/openrouter"
)

type OpenRouterEngine struct {
	planModel    einomodel.ToolCallingChatModel
	narrateModel einomodel.BaseChatModel

	// Raw SDK client, used for endpoint checks outside the two call
	// shapes eino covers.
	client *openaisdk.Client
}

var _ contractx.Engine = (*OpenRouterEngine)(nil)

// New builds both phase models and binds the operations catalog to the
// planning model. The catalog is fixed for the engine's lifetime.
func New(ctx context.Context, cfg Config, catalog []*schema.ToolInfo) (*OpenRouterEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	planCfg := cfg.openRouterFor(PhasePlan)
	planBase, err := planCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create planner model: %v", contractx.ErrEngineUnavailable, err)
	}
	planModel, err := planBase.WithTools(catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tool catalog: %v", contractx.ErrEngineUnavailable, err)
	}

	narrateCfg := cfg.openRouterFor(PhaseNarrate)
	narrateModel, err := narrateCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create narrator model: %v", contractx.ErrEngineUnavailable, err)
	}

	return &OpenRouterEngine{
		planModel:    planModel,
		narrateModel: narrateModel,
		client:       openrouterx.NewClient(planCfg),
	}, nil
}

// NewWithModels wires pre-built chat models. Used by tests.
func NewWithModels(planModel einomodel.ToolCallingChatModel, narrateModel einomodel.BaseChatModel) *OpenRouterEngine {
	return &OpenRouterEngine{planModel: planModel, narrateModel: narrateModel}
}

// Healthcheck verifies the OpenRouter endpoint is reachable by listing
// the available models. Run it at startup before taking traffic.
func (e *OpenRouterEngine) Healthcheck(ctx context.Context) error {
	if e.client == nil {
		return fmt.Errorf("%w: no api client configured", contractx.ErrEngineUnavailable)
	}
	if _, err := e.client.Models.List(ctx); err != nil {
		return fmt.Errorf("%w: healthcheck: %v", contractx.ErrEngineUnavailable, err)
	}
	return nil
}

func (e *OpenRouterEngine) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanResponse, error) {
	msgs := buildMessages(req.System, req.History, req.UserMessage)

	out, err := e.planModel.Generate(ctx, msgs)
	if err != nil {
		return contractx.PlanResponse{}, fmt.Errorf("%w: plan call: %v", contractx.ErrEngineUnavailable, err)
	}
	if out == nil {
		return contractx.PlanResponse{}, fmt.Errorf("%w: plan call returned no message", contractx.ErrEngineUnavailable)
	}

	calls, err := toToolCalls(out.ToolCalls)
	if err != nil {
		return contractx.PlanResponse{}, err
	}

	text := strings.TrimSpace(out.Content)
	if len(calls) == 0 && text == "" {
		return contractx.PlanResponse{}, fmt.Errorf("%w: plan call returned neither text nor tool calls", contractx.ErrEngineUnavailable)
	}

	return contractx.PlanResponse{
		Message:   text,
		ToolCalls: calls,
	}, nil
}

func (e *OpenRouterEngine) Narrate(ctx context.Context, req contractx.NarrateRequest) (string, error) {
	payload, err := json.Marshal(req.Outcomes)
	if err != nil {
		return "", fmt.Errorf("%w: marshal outcomes: %v", contractx.ErrEngineUnavailable, err)
	}

	msgs := buildMessages(req.System, req.History, req.UserMessage)
	msgs = append(msgs, schema.UserMessage(fmt.Sprintf(
		"These operations were executed for the message above; each entry is the real outcome (a result, or an error summary).\n%s\nWrite the final reply to the user based on these outcomes.",
		payload,
	)))

	out, err := e.narrateModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: narrate call: %v", contractx.ErrEngineUnavailable, err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("%w: narrate call returned empty reply", contractx.ErrEngineUnavailable)
	}
	return strings.TrimSpace(out.Content), nil
}

func buildMessages(system string, history []contractx.Turn, userMessage string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history)+2)
	msgs = append(msgs, schema.SystemMessage(system))
	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleAgent:
			msgs = append(msgs, schema.AssistantMessage(turn.Text, nil))
		default:
			msgs = append(msgs, schema.UserMessage(turn.Text))
		}
	}
	msgs = append(msgs, schema.UserMessage(userMessage))
	return msgs
}

// toToolCalls maps model tool calls onto pass-scoped requests. A
// malformed call is a malformed engine response, not a tool failure.
func toToolCalls(calls []schema.ToolCall) ([]contractx.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]contractx.ToolCall, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call without a name", contractx.ErrEngineUnavailable)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("%w: malformed arguments for tool=%s: %v", contractx.ErrEngineUnavailable, name, err)
			}
		}

		out = append(out, contractx.ToolCall{Tool: name, Args: args})
	}
	return out, nil
}
