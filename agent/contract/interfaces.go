package contract

import "context"

// Oracle sends a prompt to an external text generator and returns its raw reply.
type Oracle interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, offer any, needs ResourceMap, surplus ResourceMap) (EvaluationResult, error)
}

type PlanGenerator interface {
	GeneratePlan(ctx context.Context, info any, people []any, incoming []any) (PlanResult, error)
}

type Registry interface {
	Evaluator() Evaluator
	PlanGenerator() PlanGenerator
}
