// Package oracle carries prompts to the external language model and returns its raw text.
// It does not interpret the reply and never retries.
package oracle

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	llmx "github.com/tanpawarit/resource-trader/agent/llm"
	openrouterx "github.com/tanpawarit/resource-trader/pkg/openrouter"
)

// New builds the oracle serving agentType from cfg.
func New(ctx context.Context, cfg llmx.Config, agentType contractx.AgentType) (contractx.Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	modelCfg := cfg.OpenRouterFor(agentType)
	if cfg.UsesSDK() {
		client := openrouterx.NewClient(modelCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: %s: api key is required", contractx.ErrValidation, agentType)
		}
		maxTokens := 0
		if modelCfg.MaxCompletionToken != nil {
			maxTokens = *modelCfg.MaxCompletionToken
		}
		return NewSDK(client, modelCfg.Model,
			WithTemperature(modelCfg.Temperature),
			WithMaxTokens(maxTokens),
		)
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrOracleInvoke, agentType, err)
	}
	return NewChatModel(ctx, chatModel)
}

// Func adapts a plain function to contractx.Oracle.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
