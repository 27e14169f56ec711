package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/nodes"
)

// compilePassGraph wires the orchestration state machine:
//
//	validate_request -> load_history -> plan
//	  plan w/o tool calls -> reply_direct -> END
//	  plan w/ tool calls  -> dispatch_tools -> narrate -> finalize_reply -> END
//
// Dispatch is a single sequential node; tools are never run concurrently.
func (o *Orchestrator) compilePassGraph(ctx context.Context) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadHistory(ctx, in, o.reconstructor)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_history: %w", err)
	}

	if err := graph.AddLambdaNode("plan",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Plan(ctx, in, o.engine, o.system)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_tools",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			// Fresh registry per pass; nothing survives the request.
			return nodex.DispatchTools(ctx, in, o.newRegistry())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_tools: %w", err)
	}

	if err := graph.AddLambdaNode("narrate",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Narrate(ctx, in, o.engine, o.system)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node narrate: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	if err := graph.AddLambdaNode("reply_direct",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reply_direct: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if len(in.Plan.ToolCalls) > 0 {
				return "dispatch_tools", nil
			}
			return "reply_direct", nil
		},
		map[string]bool{
			"dispatch_tools": true,
			"reply_direct":   true,
		},
	)

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_history"},
		{"load_history", "plan"},
		{"dispatch_tools", "narrate"},
		{"narrate", "finalize_reply"},
		{"finalize_reply", compose.END},
		{"reply_direct", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	if err := graph.AddBranch("plan", branch); err != nil {
		return nil, fmt.Errorf("add plan branch: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.pass"))
	if err != nil {
		return nil, fmt.Errorf("compile pass graph: %w", err)
	}
	return runner, nil
}
