package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/voxbot/internal/config"
	calclient "github.com/sandevgo/voxbot/internal/providers/calendar"
	"github.com/sandevgo/voxbot/internal/providers/llm"
	"github.com/sandevgo/voxbot/internal/providers/weather"
	"github.com/sandevgo/voxbot/internal/service/assistant"
	calsvc "github.com/sandevgo/voxbot/internal/service/calendar"
	"github.com/sandevgo/voxbot/internal/service/command"
	"github.com/sandevgo/voxbot/internal/service/dialog"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/sandevgo/voxbot/internal/service/slots"
	"github.com/sandevgo/voxbot/internal/storage/sqlite"
	"github.com/sandevgo/voxbot/internal/transport/cli"
	"github.com/sandevgo/voxbot/internal/transport/telegram"
	"github.com/sandevgo/voxbot/pkg/log"
	"github.com/sandevgo/voxbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	store := session.NewStore(sqlite.NewSessionRepo(db), appCfg.MaxExchanges, appCfg.ContextTTLTurns)

	// 3. Collaborators
	weatherClient := weather.NewClient(config.NewWeatherConfig(ctx))
	calendarClient := calclient.NewClient(config.NewCalendarConfig(ctx))

	llmProvider, err := llm.NewProvider(ctx, appCfg.LLMProvider, config.NewLLMConfig(ctx))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Turn resolver strategy
	resolver := newResolver(ctx, appCfg, weatherClient, calendarClient, llmProvider)

	// 5. Commands + Assistant
	var resetters []command.ContextResetter
	if r, ok := resolver.(command.ContextResetter); ok {
		resetters = append(resetters, r)
	}
	router := command.New(command.NewCommands(store, resetters...))
	assist := assistant.New(store, router, resolver)

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, assist)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func newResolver(
	ctx context.Context,
	cfg *config.AppConfig,
	weatherClient *weather.Client,
	calendarClient *calclient.Client,
	llmProvider llm.Provider,
) assistant.TurnResolver {
	logger := log.FromCtx(ctx)
	logger.Info().Str("strategy", cfg.ResolverStrategy).Msg("selecting turn resolver")

	switch cfg.ResolverStrategy {
	case "rules":
		return dialog.NewEngine(
			weatherClient,
			llmProvider,
			calsvc.NewResolver(calendarClient, cfg.DefaultPlace),
			cfg.DefaultPlace,
		)
	case "slots":
		return slots.NewResolver(llmProvider, weatherClient, calendarClient)
	default:
		logger.Fatal().Str("strategy", cfg.ResolverStrategy).Msg("unknown resolver strategy")
		return nil
	}
}

func initTransports(ctx context.Context, cfg *config.AppConfig, assist *assistant.Assistant) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(assist, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, assist)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
