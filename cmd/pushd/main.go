// Command pushd serves the push notification core over HTTP for local
// development. See package api for the routes.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/pushkit"
	"github.com/dmitrymomot/pushkit/pkg/api"
	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/config"
	"github.com/dmitrymomot/pushkit/pkg/httpserver"
	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/media"
	"github.com/dmitrymomot/pushkit/pkg/resources"
	"github.com/dmitrymomot/pushkit/pkg/tray"
)

type appConfig struct {
	pushkit.Config

	HTTP httpserver.Config

	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// ResourcesDir holds JSON or YAML string tables for localized payloads.
	ResourcesDir string `env:"RESOURCES_DIR"`
	Language     string `env:"LANGUAGE" envDefault:"en"`

	WebhookURL     string        `env:"WEBHOOK_URL"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	WebhookRetries int           `env:"WEBHOOK_RETRIES" envDefault:"3"`
	WebhookQueue   int           `env:"WEBHOOK_QUEUE_SIZE" envDefault:"64"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg, config.WithPrefix("PUSHKIT_"), config.WithEnvFiles(".env"))

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "pushd"),
		logger.WithEventContext(),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			opts = append(opts, logger.WithLevel(level))
		}
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("pushd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	fetcher, err := media.NewFetcher(cfg.Media, media.WithLogger(log))
	if err != nil {
		return err
	}
	tr := tray.New(tray.WithFetcher(fetcher), tray.WithLogger(log))

	stream := bridge.NewMemoryBridge(bridge.WithMemoryLogger(log))
	var br bridge.Bridge = stream
	var hook *bridge.WebhookBridge
	if cfg.WebhookURL != "" {
		hook, err = bridge.NewWebhookBridge(cfg.WebhookURL,
			bridge.WithTimeout(cfg.WebhookTimeout),
			bridge.WithMaxRetries(cfg.WebhookRetries),
			bridge.WithQueueSize(cfg.WebhookQueue),
			bridge.WithWebhookLogger(log),
		)
		if err != nil {
			return err
		}
		br = bridge.Multi{stream, hook}
	}

	state := api.NewStateStore(lifecycle.AppState{})
	kitOpts := []pushkit.Option{
		pushkit.WithLogger(log),
		pushkit.WithEffects(tr),
		pushkit.WithAppState(state.Func()),
	}
	if cfg.ResourcesDir != "" {
		table, err := resources.New(ctx, resources.NewFSAdapter(os.DirFS(cfg.ResourcesDir), "."),
			resources.WithLanguage(cfg.Language),
			resources.WithLogger(log),
		)
		if err != nil {
			return err
		}
		kitOpts = append(kitOpts, pushkit.WithResolver(table))
	}
	kit := pushkit.New(cfg.Config, tr, br, kitOpts...)

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithDrainHook(func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := kit.Close(ctx); err != nil {
				log.WarnContext(ctx, "pending events dropped on shutdown", logger.Error(err))
			}
			// Closing the stream ends open /events responses.
			_ = stream.Close()
			if hook != nil {
				if err := hook.Close(ctx); err != nil {
					log.WarnContext(ctx, "queued webhook events dropped on shutdown", logger.Error(err))
				}
			}
		}),
	)

	handler := api.New(kit.Router, tr, state,
		api.WithEventStream(stream),
		api.WithLogger(log),
	)
	return srv.Run(ctx, handler.Routes())
}
