package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

type fakeOracle struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeOracle) Invoke(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(t *testing.T, oracle contractx.Oracle, opts ...Option) (*Generator, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	opts = append([]Option{WithLogger(zerolog.New(&buf))}, opts...)
	g, err := New(context.Background(), oracle, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g, &buf
}

func TestGeneratePlanReturnsParsedObject(t *testing.T) {
	t.Parallel()

	const reply = `{"acciones":[{"tipo":"carta","destinatario":"ana","recursos":{"piedra":2}}],"analisis":"falta madera"}`
	g, logs := newTestGenerator(t, &fakeOracle{response: reply})

	res, err := g.GeneratePlan(context.Background(),
		map[string]any{"recursos": map[string]int{"piedra": 4}, "objetivo": map[string]int{"madera": 3}},
		[]any{"ana", "luis"},
		nil,
	)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}

	plan, ok := res.(contractx.Plan)
	if !ok {
		t.Fatalf("expected Plan, got %T", res)
	}
	var want any
	if err := json.Unmarshal([]byte(reply), &want); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(plan.Body, want) {
		t.Fatalf("Body = %#v, want %#v", plan.Body, want)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %s", logs.String())
	}
}

func TestGeneratePlanAcceptsAnyJSONValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  any
	}{
		{name: "array", reply: "[1,2]", want: []any{float64(1), float64(2)}},
		{name: "null", reply: "null", want: nil},
		{name: "string", reply: `"esperar"`, want: "esperar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, _ := newTestGenerator(t, &fakeOracle{response: tt.reply})
			res, err := g.GeneratePlan(context.Background(), nil, nil, nil)
			if err != nil {
				t.Fatalf("GeneratePlan() error = %v", err)
			}
			plan, ok := res.(contractx.Plan)
			if !ok {
				t.Fatalf("expected Plan, got %T", res)
			}
			if !reflect.DeepEqual(plan.Body, tt.want) {
				t.Fatalf("Body = %#v, want %#v", plan.Body, tt.want)
			}
		})
	}
}

func TestGeneratePlanBadJSONReturnsNoResult(t *testing.T) {
	t.Parallel()

	g, logs := newTestGenerator(t, &fakeOracle{response: "{bad json"})

	res, err := g.GeneratePlan(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	noResult, ok := res.(contractx.NoResult)
	if !ok {
		t.Fatalf("expected NoResult, got %T", res)
	}
	if noResult.Reason == "" {
		t.Fatal("expected a reason")
	}
	if _, isFallback := res.(contractx.EvaluationResult); isFallback {
		t.Fatal("plan results must not share the evaluator fallback shape")
	}
	if !strings.Contains(logs.String(), "{bad json") {
		t.Fatalf("expected raw reply in diagnostic, got %s", logs.String())
	}
}

func TestGeneratePlanOracleFailurePropagates(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t, &fakeOracle{err: contractx.ErrOracleInvoke})

	res, err := g.GeneratePlan(context.Background(), nil, nil, nil)
	if !errors.Is(err, contractx.ErrOracleInvoke) {
		t.Fatalf("GeneratePlan() error = %v, want ErrOracleInvoke", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %#v", res)
	}
}

func TestGeneratePlanPromptLayout(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{response: "{}"}
	g, _ := newTestGenerator(t, oracle, WithBasePrompt("INSTRUCCIONES BASE"))

	_, err := g.GeneratePlan(context.Background(),
		map[string]any{"oro": 2},
		[]any{map[string]any{"alias": "ana"}},
		nil,
	)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}

	want := "NUESTROS RECURSOS:\n{\n  \"oro\": 2\n}\n\n" +
		"AGENTES DISPONIBLES:\n[\n  {\n    \"alias\": \"ana\"\n  }\n]\n\n" +
		"CARTAS RECIBIDAS:\n[]\n\n" +
		"INSTRUCCIONES BASE"
	if oracle.prompts[0] != want {
		t.Fatalf("prompt = %q, want %q", oracle.prompts[0], want)
	}
}

func TestGeneratePlanUnserializableInput(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{response: "{}"}
	g, _ := newTestGenerator(t, oracle)

	_, err := g.GeneratePlan(context.Background(), make(chan int), nil, nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("GeneratePlan() error = %v, want ErrValidation", err)
	}
	if len(oracle.prompts) != 0 {
		t.Fatal("oracle must not be called for invalid input")
	}
}

func TestNewRequiresOracle(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New(nil) error = %v, want ErrValidation", err)
	}
}
