package oracle

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

// SDKOracle calls the Chat Completions endpoint through the OpenAI SDK.
// Works against OpenRouter and Ollama's OpenAI-compatible API.
type SDKOracle struct {
	client      *openaisdk.Client
	model       string
	temperature float64
	maxTokens   int64
}

var _ contractx.Oracle = (*SDKOracle)(nil)

type SDKOption func(*SDKOracle)

func WithTemperature(t float32) SDKOption {
	return func(o *SDKOracle) {
		o.temperature = float64(t)
	}
}

func WithMaxTokens(n int) SDKOption {
	return func(o *SDKOracle) {
		if n > 0 {
			o.maxTokens = int64(n)
		}
	}
}

func NewSDK(client *openaisdk.Client, model string, opts ...SDKOption) (*SDKOracle, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}

	o := &SDKOracle{
		client:      client,
		model:       model,
		temperature: -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

func (o *SDKOracle) Invoke(ctx context.Context, prompt string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	}
	if o.temperature >= 0 {
		params.Temperature = openaisdk.Float(o.temperature)
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(o.maxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion model=%s: %v", contractx.ErrOracleInvoke, o.model, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion model=%s returned no choices", contractx.ErrOracleInvoke, o.model)
	}
	return resp.Choices[0].Message.Content, nil
}
