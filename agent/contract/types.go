package contract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AgentType names the role an oracle serves; each role may use its own model.
type AgentType string

const (
	AgentTypeEvaluator AgentType = "evaluator"
	AgentTypePlanner   AgentType = "planner"
)

type Verdict string

const (
	VerdictAccepted Verdict = "aceptada"
	VerdictRejected Verdict = "rechazada"
)

func (v Verdict) Valid() bool {
	return v == VerdictAccepted || v == VerdictRejected
}

// Keys of the oracle's decision object.
const (
	KeyDecision = "decision"
	KeyOffer    = "oferta"
	KeyRequest  = "pide"
)

// FallbackKind is the "tipo" carried by every Fallback.
const FallbackKind = "otro"

// EvaluationResult is either a Decision or a Fallback. Callers branch with a type switch.
type EvaluationResult interface {
	isEvaluationResult()
}

// Decision is the oracle's verdict on one offer.
// Offer is what the counterparty gives us ("oferta"), Request is what it
// wants from us ("pide"). On VerdictRejected both are non-binding.
type Decision struct {
	Verdict Verdict
	Offer   ResourceMap
	Request ResourceMap

	// Raw is the decoded oracle object, unchanged.
	Raw map[string]any

	// Vetoed is set when local verification overrode an accepted verdict.
	Vetoed string
}

func (Decision) isEvaluationResult() {}

func (d Decision) Accepted() bool {
	return d.Verdict == VerdictAccepted
}

// DecodeDecision reads the typed fields out of raw without rejecting
// incomplete objects. Missing or malformed keys leave their field zero.
func DecodeDecision(raw map[string]any) Decision {
	d := Decision{Raw: raw}
	if s, ok := raw[KeyDecision].(string); ok {
		d.Verdict = Verdict(strings.TrimSpace(s))
	}
	if m, err := ResourceMapFromAny(raw[KeyOffer]); err == nil {
		d.Offer = m
	}
	if m, err := ResourceMapFromAny(raw[KeyRequest]); err == nil {
		d.Request = m
	}
	return d
}

// Validate checks that the raw object carries every key of the decision schema.
func (d Decision) Validate() error {
	if d.Raw == nil {
		return fmt.Errorf("%w: decision object is empty", ErrSchemaViolation)
	}

	rawVerdict, ok := d.Raw[KeyDecision]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrSchemaViolation, KeyDecision)
	}
	s, ok := rawVerdict.(string)
	if !ok || !Verdict(strings.TrimSpace(s)).Valid() {
		return fmt.Errorf("%w: %s=%v is not one of %q|%q", ErrSchemaViolation, KeyDecision, rawVerdict, VerdictAccepted, VerdictRejected)
	}

	for _, key := range []string{KeyOffer, KeyRequest} {
		v, ok := d.Raw[key]
		if !ok {
			return fmt.Errorf("%w: missing key %q", ErrSchemaViolation, key)
		}
		if _, err := ResourceMapFromAny(v); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func (d Decision) MarshalJSON() ([]byte, error) {
	if d.Raw != nil {
		return json.Marshal(d.Raw)
	}
	return json.Marshal(map[string]any{
		KeyDecision: d.Verdict,
		KeyOffer:    nonNil(d.Offer),
		KeyRequest:  nonNil(d.Request),
	})
}

// Fallback is returned when the oracle reply is not a usable object.
// It is not a trade decision and commits to nothing.
type Fallback struct {
	Kind     string      `json:"tipo"`
	Offer    ResourceMap `json:"oferta"`
	Request  ResourceMap `json:"pide"`
	Received ResourceMap `json:"recursos_recibidos"`
}

func (Fallback) isEvaluationResult() {}

// NewFallback builds a fresh fallback value; callers may mutate it freely.
func NewFallback() Fallback {
	return Fallback{
		Kind:     FallbackKind,
		Offer:    ResourceMap{},
		Request:  ResourceMap{},
		Received: ResourceMap{},
	}
}

// Map renders the fallback as encoding/json would decode it.
func (f Fallback) Map() map[string]any {
	return map[string]any{
		"tipo":               f.Kind,
		"oferta":             toAnyMap(f.Offer),
		"pide":               toAnyMap(f.Request),
		"recursos_recibidos": toAnyMap(f.Received),
	}
}

// PlanResult is either a Plan or NoResult.
type PlanResult interface {
	isPlanResult()
}

// Plan holds the oracle's parsed JSON value verbatim.
type Plan struct {
	Body any
}

func (Plan) isPlanResult() {}

// NoResult signals that no plan could be parsed from the oracle reply.
type NoResult struct {
	Reason string
}

func (NoResult) isPlanResult() {}

func nonNil(m ResourceMap) ResourceMap {
	if m == nil {
		return ResourceMap{}
	}
	return m
}

func toAnyMap(m ResourceMap) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}
