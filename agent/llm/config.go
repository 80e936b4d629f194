package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/resource-trader/agent/contract"
	openrouterx "github.com/tanpawarit/resource-trader/pkg/openrouter"
)

const (
	TransportChatModel = "chatmodel"
	TransportSDK       = "sdk"
)

type Config struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openrouter"`
	Transport          string        `envconfig:"TRANSPORT" split_words:"true" default:"chatmodel"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	EvaluatorModel       string  `envconfig:"EVALUATOR_MODEL" split_words:"true"`
	PlannerModel         string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	EvaluatorTemperature float32 `envconfig:"EVALUATOR_TEMPERATURE" split_words:"true" default:"-1"`
	PlannerTemperature   float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.transport() {
	case TransportChatModel, TransportSDK:
	default:
		return fmt.Errorf("%w: unsupported transport=%q", contractx.ErrValidation, c.Transport)
	}
	for _, agentType := range []contractx.AgentType{contractx.AgentTypeEvaluator, contractx.AgentTypePlanner} {
		cfg := c.OpenRouterFor(agentType)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", contractx.ErrValidation, agentType, err)
		}
	}
	return nil
}

// UsesSDK reports whether oracles should call the OpenAI SDK directly instead of an eino chat model.
func (c Config) UsesSDK() bool {
	return c.transport() == TransportSDK
}

func (c Config) transport() string {
	t := strings.ToLower(strings.TrimSpace(c.Transport))
	if t == "" {
		return TransportChatModel
	}
	return t
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeEvaluator:
		if v := strings.TrimSpace(c.EvaluatorModel); v != "" {
			modelName = v
		}
		if c.EvaluatorTemperature >= 0 {
			temp = c.EvaluatorTemperature
		}
	case contractx.AgentTypePlanner:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			modelName = v
		}
		if c.PlannerTemperature >= 0 {
			temp = c.PlannerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		Provider:           strings.TrimSpace(c.Provider),
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
