package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/voxbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"VOXBOT_RUNTIME_PATH" envDefault:".voxbot"`
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"ollama"`

	// Turn resolution strategy: "rules" (keyword engine) or "slots"
	// (LLM-backed slot filling).
	ResolverStrategy string `env:"RESOLVER_STRATEGY" envDefault:"rules"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Context management
	MaxExchanges    int    `env:"MAX_EXCHANGES" envDefault:"4"`
	ContextTTLTurns int    `env:"CONTEXT_TTL_TURNS" envDefault:"5"`
	DefaultPlace    string `env:"DEFAULT_PLACE" envDefault:"Marburg"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "voxbot.db")
}
