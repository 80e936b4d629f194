package main

import (
	"context"

	"github.com/rs/zerolog/log"
	agentsx "github.com/tanpawarit/resource-trader/agent/agents"
	llmx "github.com/tanpawarit/resource-trader/agent/llm"
	configx "github.com/tanpawarit/resource-trader/pkg/config"
	_ "github.com/tanpawarit/resource-trader/pkg/logger/autoload"
)

func main() {
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	traderCfg := configx.MustNew[agentsx.Config]("TRADER")

	registry, err := agentsx.NewRegistry(ctx, *llmCfg, *traderCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize trader agents")
	}
	_ = registry

	log.Info().
		Str("provider", llmCfg.Provider).
		Str("transport", llmCfg.Transport).
		Str("model", llmCfg.Model).
		Bool("local_verification", traderCfg.LocalVerification).
		Bool("schema_check", traderCfg.SchemaCheck).
		Msg("config and oracle clients loaded")
}
