// Package planner is the legacy turn planner: it asks the oracle for a plan
// over our resources, the known agents and the offers received so far.
// Unlike the evaluator it has no fallback object; an unparseable reply
// yields contractx.NoResult.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	promptx "github.com/tanpawarit/resource-trader/agent/prompt"
)

type Generator struct {
	oracle     contractx.Oracle
	basePrompt string
	logger     *zerolog.Logger
	runner     compose.Runnable[planRequest, contractx.PlanResult]
}

var _ contractx.PlanGenerator = (*Generator)(nil)

type Option func(*Generator)

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = &logger
	}
}

// WithBasePrompt replaces the instructions appended after the plan inputs.
func WithBasePrompt(base string) Option {
	return func(g *Generator) {
		if trimmed := strings.TrimSpace(base); trimmed != "" {
			g.basePrompt = trimmed
		}
	}
}

func New(ctx context.Context, oracle contractx.Oracle, opts ...Option) (*Generator, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: oracle is required", contractx.ErrValidation)
	}

	g := &Generator{
		oracle:     oracle,
		basePrompt: promptx.LoadPromptSet().PlannerBase,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.basePrompt == "" {
		return nil, fmt.Errorf("%w: planner base prompt is empty", contractx.ErrPromptMissing)
	}

	runner, err := g.compileGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile planner graph: %w", err)
	}
	g.runner = runner
	return g, nil
}

// GeneratePlan returns contractx.Plan holding the oracle's JSON verbatim, or
// contractx.NoResult when the reply is not JSON. The error is non-nil only
// for unserializable input or an oracle transport failure.
func (g *Generator) GeneratePlan(
	ctx context.Context,
	info any,
	people []any,
	incoming []any,
) (contractx.PlanResult, error) {
	out, err := g.runner.Invoke(ctx, planRequest{
		Info:     info,
		People:   people,
		Incoming: incoming,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) log() *zerolog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return &log.Logger
}
