package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/voxbot/internal/config"
	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/pkg/log"
)

// Provider is what the dialogue core needs from a language model: the
// open-domain chat fallback and structured slot extraction.
type Provider interface {
	core.ChatProvider
	core.SlotExtractor
}

func NewProvider(ctx context.Context, provider string, cfg *config.LLMConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch provider {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model), nil
	case "custom":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    cfg.CustomBaseURL,
			APIKey:     cfg.CustomAPIKey,
			Model:      cfg.Model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
