package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

var (
	//go:embed template/evaluator.txt
	evaluatorRaw string

	//go:embed template/planner.txt
	plannerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	// Evaluator is a Go template over .needs, .surplus and .offer.
	Evaluator string
	// PlannerBase is appended verbatim after the plan inputs.
	PlannerBase string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Evaluator:   strings.TrimSpace(evaluatorRaw),
		PlannerBase: strings.TrimSpace(plannerRaw),
	}
}

// WithPlannerBaseFile replaces the planner base prompt with the content of path.
// An empty path keeps the embedded prompt.
func (p PromptSet) WithPlannerBaseFile(path string) (PromptSet, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("%w: read planner base prompt: %v", contractx.ErrPromptMissing, err)
	}
	base := strings.TrimSpace(string(raw))
	if base == "" {
		return p, fmt.Errorf("%w: planner base prompt file %s is empty", contractx.ErrPromptMissing, path)
	}
	p.PlannerBase = base
	return p, nil
}
