package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"TaigiBot/internal/config"
	"TaigiBot/internal/infrastructure/discord"
	"TaigiBot/internal/infrastructure/parser"
	"TaigiBot/internal/infrastructure/telegram"
	"TaigiBot/internal/logging"
	"TaigiBot/internal/ports"
	"TaigiBot/internal/source"
	"TaigiBot/internal/usecase"
)

// Application wires configs to use cases and the chat gateway.
type Application struct {
	cfg     config.Config
	bot     *usecase.Bot
	gateway ports.Gateway
	logger  *slog.Logger
}

// New builds a runnable application. It does not connect to the chat
// platform until Run is called.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	sources, err := buildSources(cfg.Sources, http.DefaultClient, baseLogger)
	if err != nil {
		return nil, err
	}

	bot := usecase.NewBot(usecase.BotDeps{
		ChannelID:  cfg.Bot.ChannelID,
		Aggregator: usecase.NewAggregator(sources, baseLogger.With("component", "aggregator")),
		Formatter: usecase.Formatter{
			Prompt:           cfg.Bot.Prompt,
			NoResultReaction: cfg.Bot.NoResultReaction,
		},
		Logger: baseLogger.With("component", "bot"),
	})

	gateway, err := buildGateway(cfg, baseLogger.With("component", "gateway."+cfg.Bot.Platform))
	if err != nil {
		return nil, err
	}

	return &Application{cfg: cfg, bot: bot, gateway: gateway, logger: baseLogger}, nil
}

// Run serves messages until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "bot starting",
		"platform", a.cfg.Bot.Platform,
		"channel_id", a.cfg.Bot.ChannelID,
		"sources", a.cfg.Sources.Enabled,
	)
	if err := a.gateway.Run(ctx, a.bot.HandleMessage); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "bot stopped")
	return nil
}

func buildSources(cfg config.SourcesConfig, client *http.Client, logger *slog.Logger) ([]ports.Source, error) {
	registry := source.NewRegistry()
	registry.Register(parser.NewTaigiTVSource(cfg.TaigiTVBaseURL, client, logger.With("component", "source.taigitv")))
	registry.Register(parser.NewSutianSource(cfg.SutianBaseURL, client, logger.With("component", "source.sutian")))
	registry.Register(parser.NewITaigiSource(cfg.ITaigiBaseURL, client, logger.With("component", "source.itaigi")))

	sources, err := registry.Ordered(cfg.Enabled)
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}
	return sources, nil
}

func buildGateway(cfg config.Config, logger *slog.Logger) (ports.Gateway, error) {
	switch cfg.Bot.Platform {
	case config.PlatformDiscord:
		gw, err := discord.NewGateway(cfg.Discord.Token, logger)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case config.PlatformTelegram:
		gw, err := telegram.NewGateway(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.PollTimeout, logger)
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("unknown bot platform %q", cfg.Bot.Platform)
	}
}
