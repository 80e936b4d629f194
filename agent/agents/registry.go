package agents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	evaluatorx "github.com/tanpawarit/resource-trader/agent/agents/evaluator"
	plannerx "github.com/tanpawarit/resource-trader/agent/agents/planner"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	llmx "github.com/tanpawarit/resource-trader/agent/llm"
	oraclex "github.com/tanpawarit/resource-trader/agent/oracle"
	promptx "github.com/tanpawarit/resource-trader/agent/prompt"
)

// Config holds the evaluation switches, loaded with prefix TRADER.
type Config struct {
	LocalVerification     bool   `envconfig:"LOCAL_VERIFICATION" split_words:"true" default:"false"`
	SchemaCheck           bool   `envconfig:"SCHEMA_CHECK" split_words:"true" default:"false"`
	PlannerBasePromptFile string `envconfig:"PLANNER_BASE_PROMPT_FILE" split_words:"true"`
}

type registryImpl struct {
	evaluator contractx.Evaluator
	planner   contractx.PlanGenerator
}

func (r *registryImpl) Evaluator() contractx.Evaluator {
	return r.evaluator
}

func (r *registryImpl) PlanGenerator() contractx.PlanGenerator {
	return r.planner
}

func NewRegistry(ctx context.Context, llmCfg llmx.Config, cfg Config) (contractx.Registry, error) {
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	prompts, err := promptx.LoadPromptSet().WithPlannerBaseFile(cfg.PlannerBasePromptFile)
	if err != nil {
		return nil, err
	}

	evaluatorOracle, err := oraclex.New(ctx, llmCfg, contractx.AgentTypeEvaluator)
	if err != nil {
		return nil, fmt.Errorf("create evaluator oracle: %w", err)
	}
	plannerOracle, err := oraclex.New(ctx, llmCfg, contractx.AgentTypePlanner)
	if err != nil {
		return nil, fmt.Errorf("create planner oracle: %w", err)
	}

	evalOpts := []evaluatorx.Option{
		evaluatorx.WithLogger(log.Logger.With().Str("component", "evaluator").Logger()),
		evaluatorx.WithPromptTemplate(prompts.Evaluator),
	}
	if cfg.SchemaCheck {
		evalOpts = append(evalOpts, evaluatorx.WithSchemaCheck())
	}
	if cfg.LocalVerification {
		evalOpts = append(evalOpts, evaluatorx.WithLocalVerification())
	}
	evaluator, err := evaluatorx.New(ctx, evaluatorOracle, evalOpts...)
	if err != nil {
		return nil, err
	}

	planner, err := plannerx.New(ctx, plannerOracle,
		plannerx.WithLogger(log.Logger.With().Str("component", "planner").Logger()),
		plannerx.WithBasePrompt(prompts.PlannerBase),
	)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		evaluator: evaluator,
		planner:   planner,
	}, nil
}
