package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	promptx "github.com/tanpawarit/resource-trader/agent/prompt"
)

var errNotObject = errors.New("oracle reply is not a JSON object")

func validateRequest(in evaluationRequest) (*evaluationState, error) {
	if err := in.Needs.Validate(); err != nil {
		return nil, fmt.Errorf("needs: %w", err)
	}
	if err := in.Surplus.Validate(); err != nil {
		return nil, fmt.Errorf("surplus: %w", err)
	}

	st := &evaluationState{Req: in}

	var err error
	if st.NeedsJSON, err = promptx.IndentJSON(nonNil(in.Needs)); err != nil {
		return nil, fmt.Errorf("%w: marshal needs: %v", contractx.ErrValidation, err)
	}
	if st.SurplusJSON, err = promptx.IndentJSON(nonNil(in.Surplus)); err != nil {
		return nil, fmt.Errorf("%w: marshal surplus: %v", contractx.ErrValidation, err)
	}
	if st.OfferJSON, err = promptx.IndentJSON(in.Offer); err != nil {
		return nil, fmt.Errorf("%w: marshal offer: %v", contractx.ErrValidation, err)
	}
	return st, nil
}

func (e *Evaluator) renderPrompt(ctx context.Context, in *evaluationState) (*evaluationState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: evaluation state is nil", contractx.ErrValidation)
	}

	msgs, err := e.template.Format(ctx, map[string]any{
		"needs":   in.NeedsJSON,
		"surplus": in.SurplusJSON,
		"offer":   in.OfferJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render evaluator prompt: %v", contractx.ErrPromptMissing, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("%w: evaluator prompt rendered no message", contractx.ErrPromptMissing)
	}

	in.Prompt = msgs[0].Content
	return in, nil
}

func (e *Evaluator) invokeOracle(ctx context.Context, in *evaluationState) (*evaluationState, error) {
	raw, err := e.oracle.Invoke(ctx, in.Prompt)
	if err != nil {
		return nil, err
	}
	in.Raw = raw
	return in, nil
}

func (e *Evaluator) parseDecision(in *evaluationState) (*evaluationState, error) {
	obj, err := decodeObject(in.Raw)
	if err != nil {
		e.log().Warn().
			Err(err).
			Str("raw", in.Raw).
			Msg("oracle did not return a valid JSON object while evaluating offer")
		in.Result = contractx.NewFallback()
		return in, nil
	}

	decision := contractx.DecodeDecision(obj)
	if e.schemaCheck {
		if err := decision.Validate(); err != nil {
			e.log().Warn().
				Err(err).
				Str("raw", in.Raw).
				Msg("oracle decision is incomplete")
			in.Result = contractx.NewFallback()
			return in, nil
		}
	}

	in.Result = decision
	return in, nil
}

func (e *Evaluator) verify(in *evaluationState) (contractx.EvaluationResult, error) {
	decision, ok := in.Result.(contractx.Decision)
	if !ok || !e.localVerify || !decision.Accepted() {
		return in.Result, nil
	}

	var reason string
	if err := decision.Validate(); err != nil {
		reason = err.Error()
	} else {
		reason = checkAcceptance(decision, in.Req.Needs, in.Req.Surplus)
	}
	if reason == "" {
		return decision, nil
	}

	e.log().Warn().
		Str("reason", reason).
		Str("raw", in.Raw).
		Msg("accepted decision vetoed by local verification")
	return veto(decision, reason), nil
}

// decodeObject parses raw as a single JSON value and requires it to be an object.
func decodeObject(raw string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode oracle reply: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", errNotObject, jsonKind(v))
	}
	return obj, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func nonNil(m contractx.ResourceMap) contractx.ResourceMap {
	if m == nil {
		return contractx.ResourceMap{}
	}
	return m
}
