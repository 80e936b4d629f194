package evaluator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

type evaluationRequest struct {
	Offer   any
	Needs   contractx.ResourceMap
	Surplus contractx.ResourceMap
}

type evaluationState struct {
	Req evaluationRequest

	NeedsJSON   string
	SurplusJSON string
	OfferJSON   string

	Prompt string
	Raw    string
	Result contractx.EvaluationResult
}

func (e *Evaluator) compileGraph(
	ctx context.Context,
) (compose.Runnable[evaluationRequest, contractx.EvaluationResult], error) {
	graph := compose.NewGraph[evaluationRequest, contractx.EvaluationResult]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in evaluationRequest) (*evaluationState, error) {
			return validateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("render_prompt",
		compose.InvokableLambda(func(ctx context.Context, in *evaluationState) (*evaluationState, error) {
			return e.renderPrompt(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node render_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_oracle",
		compose.InvokableLambda(func(ctx context.Context, in *evaluationState) (*evaluationState, error) {
			return e.invokeOracle(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_oracle: %w", err)
	}

	if err := graph.AddLambdaNode("parse_decision",
		compose.InvokableLambda(func(ctx context.Context, in *evaluationState) (*evaluationState, error) {
			return e.parseDecision(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node parse_decision: %w", err)
	}

	if err := graph.AddLambdaNode("verify",
		compose.InvokableLambda(func(ctx context.Context, in *evaluationState) (contractx.EvaluationResult, error) {
			return e.verify(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node verify: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "render_prompt"},
		{"render_prompt", "invoke_oracle"},
		{"invoke_oracle", "parse_decision"},
		{"parse_decision", "verify"},
		{"verify", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("evaluator.evaluate_offer"))
	if err != nil {
		return nil, fmt.Errorf("compile evaluator graph: %w", err)
	}
	return runner, nil
}
