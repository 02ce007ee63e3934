package payload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// Resolver looks up a string resource and formats it with positional args.
// *resources.Table satisfies it.
type Resolver interface {
	Get(key string, args ...string) (string, bool)
}

// Localizer resolves localization objects in text fields.
type Localizer struct {
	resolver Resolver
	logger   *slog.Logger
}

// LocalizerOption configures a Localizer.
type LocalizerOption func(*Localizer)

// WithLocalizerLogger sets the logger for unresolved keys.
func WithLocalizerLogger(l *slog.Logger) LocalizerOption {
	return func(loc *Localizer) {
		if l != nil {
			loc.logger = l
		}
	}
}

// NewLocalizer returns a Localizer looking keys up in resolver.
func NewLocalizer(resolver Resolver, opts ...LocalizerOption) *Localizer {
	l := &Localizer{resolver: resolver, logger: logger.Discard()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Localize returns the localized text for the canonical key or raw when the
// key is not localizable or anything goes wrong.
func (l *Localizer) Localize(ctx context.Context, key, raw string) string {
	if l == nil || l.resolver == nil || !localizable(key) {
		return raw
	}

	text, err := l.resolve(raw)
	if err != nil {
		l.logger.LogAttrs(ctx, slog.LevelDebug, "localization skipped",
			logger.Component("localizer"),
			logger.Key(key),
			logger.Error(err),
		)
		return raw
	}
	return text
}

func (l *Localizer) resolve(raw string) (string, error) {
	parsed := Classify(raw)
	switch parsed.Kind {
	case KindScalar:
		return "", ErrNotAnObject
	case KindParseFailure:
		return "", parsed.Err
	}

	locKey, ok := parsed.Object[KeyLocKey].(string)
	if !ok || locKey == "" {
		return "", ErrNoLocKey
	}

	args, err := locArgs(parsed.Object[KeyLocData])
	if err != nil {
		return "", err
	}

	text, ok := l.resolver.Get(locKey, args...)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnresolved, locKey)
	}
	return text, nil
}

// locArgs accepts locData as a JSON array or as a string holding one.
func locArgs(v any) ([]string, error) {
	var items []any
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		items = val
	case string:
		arr, err := decodeArray(val)
		if err != nil {
			return nil, errors.Join(ErrInvalidLocData, err)
		}
		items = arr
	default:
		return nil, ErrInvalidLocData
	}

	args := make([]string, len(items))
	for i, item := range items {
		args[i] = stringify(item)
	}
	return args, nil
}

func localizable(key string) bool {
	switch key {
	case KeyTitle, KeyMessage, KeySummaryText:
		return true
	}
	return false
}
