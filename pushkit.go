package pushkit

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/config"
	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/media"
	"github.com/dmitrymomot/pushkit/pkg/payload"
	"github.com/dmitrymomot/pushkit/pkg/presenter"
	"github.com/dmitrymomot/pushkit/pkg/registry"
)

// Config aggregates the configuration of every component.
type Config struct {
	Payload   payload.Config   `envPrefix:"PAYLOAD_"`
	Presenter presenter.Config `envPrefix:"PRESENTER_"`
	Lifecycle lifecycle.Config `envPrefix:"LIFECYCLE_"`
	Media     media.Config     `envPrefix:"MEDIA_"`
}

// LoadConfig reads Config from the environment.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Kit is a wired set of components sharing one registry.
type Kit struct {
	Extractor *payload.Extractor
	Registry  *registry.Registry
	Decider   *presenter.Decider
	Router    *lifecycle.Router
}

// Option configures New.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	resolver payload.Resolver
	effects  lifecycle.Effects
	appState lifecycle.AppStateFunc
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithResolver enables localized titles and messages.
func WithResolver(r payload.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithEffects sets the sink for alerts and the badge.
func WithEffects(e lifecycle.Effects) Option {
	return func(o *options) { o.effects = e }
}

// WithAppState sets the app state source of the router.
func WithAppState(fn lifecycle.AppStateFunc) Option {
	return func(o *options) { o.appState = fn }
}

// New wires the extractor, registry, decider and router.
func New(cfg Config, tray lifecycle.Tray, br bridge.Bridge, opts ...Option) *Kit {
	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Discard()
	}

	extractorOpts := []payload.Option{payload.WithLogger(o.logger)}
	if o.resolver != nil {
		extractorOpts = append(extractorOpts, payload.WithLocalizer(
			payload.NewLocalizer(o.resolver, payload.WithLocalizerLogger(o.logger)),
		))
	}
	extractor := payload.NewExtractor(cfg.Payload, extractorOpts...)

	reg := registry.New()
	decider := presenter.NewDecider(cfg.Presenter, reg, presenter.WithLogger(o.logger))
	router := lifecycle.NewRouter(cfg.Lifecycle, decider, tray, br,
		lifecycle.WithExtractor(extractor),
		lifecycle.WithEffects(o.effects),
		lifecycle.WithAppState(o.appState),
		lifecycle.WithLogger(o.logger),
	)

	return &Kit{
		Extractor: extractor,
		Registry:  reg,
		Decider:   decider,
		Router:    router,
	}
}

// Close waits for pending hand-offs to the application.
func (k *Kit) Close(ctx context.Context) error {
	return k.Router.Close(ctx)
}
