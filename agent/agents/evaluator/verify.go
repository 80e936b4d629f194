package evaluator

import (
	"fmt"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

// checkAcceptance returns why an accepted decision breaks the acceptance
// policy, or "" when it holds:
//
//	a) everything offered is something we still need
//	b) nothing requested is something we need
//	c) surplus covers the request
//	d) we send no more than we receive, unless the offer completes every need
func checkAcceptance(d contractx.Decision, needs, surplus contractx.ResourceMap) string {
	for _, name := range d.Offer.Names() {
		if d.Offer[name] > 0 && !needs.Wants(name) {
			return fmt.Sprintf("offered resource %q is not needed", name)
		}
	}
	for _, name := range d.Request.Names() {
		if d.Request[name] > 0 && needs.Wants(name) {
			return fmt.Sprintf("requested resource %q is needed for our goal", name)
		}
	}
	if !surplus.Covers(d.Request) {
		return "surplus does not cover the request"
	}
	if d.Request.Total() > d.Offer.Total() && !completesNeeds(needs, d.Offer) {
		return fmt.Sprintf("sends %d but receives %d without completing the goal", d.Request.Total(), d.Offer.Total())
	}
	return ""
}

func completesNeeds(needs, offer contractx.ResourceMap) bool {
	for name, qty := range needs {
		if qty > 0 && offer[name] < qty {
			return false
		}
	}
	return true
}

// veto returns a rejected copy of d; d.Raw is left untouched.
func veto(d contractx.Decision, reason string) contractx.Decision {
	raw := make(map[string]any, len(d.Raw))
	for k, v := range d.Raw {
		raw[k] = v
	}
	raw[contractx.KeyDecision] = string(contractx.VerdictRejected)

	return contractx.Decision{
		Verdict: contractx.VerdictRejected,
		Offer:   d.Offer.Clone(),
		Request: d.Request.Clone(),
		Raw:     raw,
		Vetoed:  reason,
	}
}
