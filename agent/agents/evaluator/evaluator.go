// Package evaluator decides whether to accept a single resource-trade offer.
//
// The oracle applies the acceptance policy; this package renders the policy
// prompt, makes one oracle call and turns the reply into an EvaluationResult.
// A reply that is not a JSON object never fails the call: it is logged and
// replaced by a Fallback. Oracle transport errors are returned to the caller.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	promptx "github.com/tanpawarit/resource-trader/agent/prompt"
)

type Evaluator struct {
	oracle   contractx.Oracle
	template einoprompt.ChatTemplate
	runner   compose.Runnable[evaluationRequest, contractx.EvaluationResult]

	logger       *zerolog.Logger
	templateText string
	schemaCheck  bool
	localVerify  bool
}

var _ contractx.Evaluator = (*Evaluator)(nil)

type Option func(*Evaluator)

// WithLogger sets the sink for parse diagnostics. Defaults to the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = &logger
	}
}

// WithSchemaCheck treats objects missing decision, oferta or pide as unparseable.
func WithSchemaCheck() Option {
	return func(e *Evaluator) {
		e.schemaCheck = true
	}
}

// WithLocalVerification re-checks accepted decisions against needs and surplus
// and downgrades those that break the acceptance policy.
func WithLocalVerification() Option {
	return func(e *Evaluator) {
		e.localVerify = true
	}
}

// WithPromptTemplate replaces the embedded policy prompt. The template must
// reference .needs, .surplus and .offer.
func WithPromptTemplate(text string) Option {
	return func(e *Evaluator) {
		if strings.TrimSpace(text) != "" {
			e.templateText = text
		}
	}
}

func New(ctx context.Context, oracle contractx.Oracle, opts ...Option) (*Evaluator, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: oracle is required", contractx.ErrValidation)
	}

	e := &Evaluator{
		oracle:       oracle,
		templateText: promptx.LoadPromptSet().Evaluator,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if strings.TrimSpace(e.templateText) == "" {
		return nil, fmt.Errorf("%w: evaluator prompt is empty", contractx.ErrPromptMissing)
	}
	e.template = einoprompt.FromMessages(schema.GoTemplate, schema.UserMessage(e.templateText))

	runner, err := e.compileGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile evaluator graph: %w", err)
	}
	e.runner = runner

	return e, nil
}

// Evaluate asks the oracle to judge offer against needs and surplus.
// The result is a contractx.Decision or, when the reply could not be used,
// a contractx.Fallback. The error is non-nil only for invalid input or an
// oracle transport failure.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	offer any,
	needs contractx.ResourceMap,
	surplus contractx.ResourceMap,
) (contractx.EvaluationResult, error) {
	out, err := e.runner.Invoke(ctx, evaluationRequest{
		Offer:   offer,
		Needs:   needs,
		Surplus: surplus,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Evaluator) log() *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return &log.Logger
}
