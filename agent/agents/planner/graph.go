package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	promptx "github.com/tanpawarit/resource-trader/agent/prompt"
)

type planRequest struct {
	Info     any
	People   []any
	Incoming []any
}

type planState struct {
	Prompt string
	Raw    string
}

func (g *Generator) compileGraph(
	ctx context.Context,
) (compose.Runnable[planRequest, contractx.PlanResult], error) {
	graph := compose.NewGraph[planRequest, contractx.PlanResult]()

	if err := graph.AddLambdaNode("render_prompt",
		compose.InvokableLambda(func(ctx context.Context, in planRequest) (*planState, error) {
			prompt, err := renderPlanPrompt(in, g.basePrompt)
			if err != nil {
				return nil, err
			}
			return &planState{Prompt: prompt}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node render_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_oracle",
		compose.InvokableLambda(func(ctx context.Context, in *planState) (*planState, error) {
			raw, err := g.oracle.Invoke(ctx, in.Prompt)
			if err != nil {
				return nil, err
			}
			in.Raw = raw
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_oracle: %w", err)
	}

	if err := graph.AddLambdaNode("parse_plan",
		compose.InvokableLambda(func(ctx context.Context, in *planState) (contractx.PlanResult, error) {
			return g.parsePlan(in.Raw), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node parse_plan: %w", err)
	}

	edges := [][2]string{
		{compose.START, "render_prompt"},
		{"render_prompt", "invoke_oracle"},
		{"invoke_oracle", "parse_plan"},
		{"parse_plan", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("planner.generate_plan"))
	if err != nil {
		return nil, fmt.Errorf("compile planner graph: %w", err)
	}
	return runner, nil
}

func renderPlanPrompt(in planRequest, basePrompt string) (string, error) {
	sections := []struct {
		title string
		value any
	}{
		{title: "NUESTROS RECURSOS", value: in.Info},
		{title: "AGENTES DISPONIBLES", value: nonNilSlice(in.People)},
		{title: "CARTAS RECIBIDAS", value: nonNilSlice(in.Incoming)},
	}

	var b strings.Builder
	for _, s := range sections {
		body, err := promptx.IndentJSON(s.value)
		if err != nil {
			return "", fmt.Errorf("%w: marshal %s: %v", contractx.ErrValidation, strings.ToLower(s.title), err)
		}
		b.WriteString(s.title)
		b.WriteString(":\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString(basePrompt)
	return b.String(), nil
}

func (g *Generator) parsePlan(raw string) contractx.PlanResult {
	var body any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		g.log().Warn().
			Err(err).
			Str("raw", raw).
			Msg("oracle did not return valid JSON while generating plan")
		return contractx.NoResult{Reason: err.Error()}
	}
	return contractx.Plan{Body: body}
}

func nonNilSlice(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}
