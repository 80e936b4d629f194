package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"

	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	DefaultOllamaURL     = "http://localhost:11434/v1"

	// Ollama ignores the key but the OpenAI-compatible clients refuse an empty one.
	ollamaPlaceholderKey = "ollama"
)

type LLMBuilder interface {
	New(ctx context.Context) (model.BaseChatModel, error)
}

var _ LLMBuilder = (*OpenRouterConfig)(nil)

var (
	OpenRouterReasoningBlacklist = map[string]bool{
		"x-ai/grok-4.1-fast": true,
	}
)

type OpenRouterConfig struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

// Config is kept as an alias for backward compatibility.
type Config = OpenRouterConfig

func (c *OpenRouterConfig) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenRouter
	}
	return p
}

// ResolvedBaseURL returns the configured base URL or the provider default.
func (c *OpenRouterConfig) ResolvedBaseURL() string {
	if trimmed := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); trimmed != "" {
		return trimmed
	}
	if c.provider() == ProviderOllama {
		return DefaultOllamaURL
	}
	return DefaultOpenRouterURL
}

// ResolvedAPIKey returns the API key, substituting a placeholder for Ollama.
func (c *OpenRouterConfig) ResolvedAPIKey() string {
	key := strings.TrimSpace(c.APIKey)
	if key == "" && c.provider() == ProviderOllama {
		return ollamaPlaceholderKey
	}
	return key
}

func (c *OpenRouterConfig) Validate() error {
	switch c.provider() {
	case ProviderOpenRouter, ProviderOllama:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.ResolvedAPIKey() == "" {
		return errors.New("api key is required for provider " + c.provider())
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model is required")
	}
	return nil
}

// New builds an eino chat model for the configured provider.
func (c *OpenRouterConfig) New(ctx context.Context) (model.BaseChatModel, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	modelName := strings.TrimSpace(c.Model)
	temperature := c.Temperature

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     c.ResolvedBaseURL(),
		APIKey:      c.ResolvedAPIKey(),
		Model:       modelName,
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &temperature,
		Timeout:     c.Timeout,
	}

	if c.provider() == ProviderOpenRouter && OpenRouterReasoningBlacklist[modelName] {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{
				"exclude": true,
				"effort":  "none",
			},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openrouter: create chat model: %w", err)
	}

	return m, nil
}

// NewClient creates an OpenAI SDK client for the configured provider.
// It returns nil when no API key is available.
func NewClient(cfg Config) *openaisdk.Client {
	apiKey := cfg.ResolvedAPIKey()
	if apiKey == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.ResolvedBaseURL()),
		// a single oracle call per evaluation
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	// Add OpenRouter specific headers
	if cfg.provider() == ProviderOpenRouter {
		if cfg.SiteURL != "" {
			opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
		}
		if cfg.SiteName != "" {
			opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
		}
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
