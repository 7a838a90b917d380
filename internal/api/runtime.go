package api

import (
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/epistle/internal/config"
	"github.com/JaimeStill/epistle/internal/infrastructure"
	"github.com/JaimeStill/epistle/pkg/pagination"
)

// Runtime extends Infrastructure with API-scoped configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      gaconfig.AgentConfig
	Assistant  config.AssistantConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Agent:      cfg.Agent,
		Assistant:  cfg.Assistant,
		Pagination: cfg.API.Pagination,
	}
}
