package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	llmx "github.com/tanpawarit/resource-trader/agent/llm"
)

type recordedCall struct {
	Model  string
	Prompt string
}

func newFakeOllama(t *testing.T, reply func(prompt string) string) (*httptest.Server, *[]recordedCall) {
	t.Helper()

	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[0].Content

		mu.Lock()
		calls = append(calls, recordedCall{Model: req.Model, Prompt: prompt})
		mu.Unlock()

		content, _ := json.Marshal(reply(prompt))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c","object":"chat.completion","created":1,"model":%q,"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, req.Model, content)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func testLLMConfig(baseURL string) llmx.Config {
	return llmx.Config{
		Provider:             "ollama",
		Transport:            llmx.TransportSDK,
		BaseURL:              baseURL + "/v1",
		Model:                "llama3",
		PlannerModel:         "llama3-planner",
		MaxCompletionToken:   256,
		Temperature:          0,
		EvaluatorTemperature: -1,
		PlannerTemperature:   -1,
	}
}

func TestNewRegistryEndToEnd(t *testing.T) {
	t.Parallel()

	server, calls := newFakeOllama(t, func(prompt string) string {
		if strings.Contains(prompt, "OFERTA A ANALIZAR") {
			return `{"decision":"aceptada","oferta":{"madera":5},"pide":{"piedra":3}}`
		}
		return "{bad json"
	})

	reg, err := NewRegistry(context.Background(), testLLMConfig(server.URL), Config{LocalVerification: true})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	res, err := reg.Evaluator().Evaluate(context.Background(),
		"te doy 5 madera por 3 piedra",
		contractx.ResourceMap{"madera": 5},
		contractx.ResourceMap{"piedra": 3},
	)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	decision, ok := res.(contractx.Decision)
	if !ok || !decision.Accepted() {
		t.Fatalf("expected accepted Decision, got %#v", res)
	}

	plan, err := reg.PlanGenerator().GeneratePlan(context.Background(), map[string]int{"piedra": 3}, nil, nil)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if _, ok := plan.(contractx.NoResult); !ok {
		t.Fatalf("expected NoResult, got %#v", plan)
	}

	if len(*calls) != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", len(*calls))
	}
	if (*calls)[0].Model != "llama3" || (*calls)[1].Model != "llama3-planner" {
		t.Fatalf("unexpected models per role: %#v", *calls)
	}
}

func TestNewRegistryPlannerBasePromptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "base.txt")
	if err := os.WriteFile(path, []byte("PLAN SOLO EN JSON"), 0o600); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	server, calls := newFakeOllama(t, func(string) string { return `{"acciones":[]}` })
	reg, err := NewRegistry(context.Background(), testLLMConfig(server.URL), Config{PlannerBasePromptFile: path})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if _, err := reg.PlanGenerator().GeneratePlan(context.Background(), nil, nil, nil); err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if !strings.HasSuffix((*calls)[0].Prompt, "PLAN SOLO EN JSON") {
		t.Fatalf("prompt does not end with base prompt: %q", (*calls)[0].Prompt)
	}
}

func TestNewRegistryErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(context.Background(), llmx.Config{}, Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewRegistry() error = %v, want ErrValidation", err)
	}

	cfg := testLLMConfig("http://127.0.0.1:1")
	_, err := NewRegistry(context.Background(), cfg, Config{PlannerBasePromptFile: filepath.Join(t.TempDir(), "missing.txt")})
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("NewRegistry() error = %v, want ErrPromptMissing", err)
	}
}
