package resources

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// DefaultLanguage is used as the fallback language unless overridden.
const DefaultLanguage = "en"

// Table resolves string resources for the active language.
type Table struct {
	mu       sync.RWMutex
	adapter  Adapter
	strings  map[string]map[string]string
	active   string
	fallback string
	wanted   string
	logger   *slog.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLanguage sets the preferred language (BCP 47). It is matched against
// the loaded languages on every load.
func WithLanguage(lang string) Option {
	return func(t *Table) { t.wanted = lang }
}

// WithFallbackLanguage sets the language consulted when a key is missing in
// the active one.
func WithFallbackLanguage(lang string) Option {
	return func(t *Table) {
		if lang != "" {
			t.fallback = lang
		}
	}
}

// WithLogger sets the table logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Table and loads it from adapter.
func New(ctx context.Context, adapter Adapter, opts ...Option) (*Table, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	t := &Table{
		adapter:  adapter,
		fallback: DefaultLanguage,
		wanted:   DefaultLanguage,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload fetches the resources from the adapter again and re-matches the
// preferred language.
func (t *Table) Reload(ctx context.Context) error {
	raw, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}

	flat := make(map[string]map[string]string, len(raw))
	for lang, table := range raw {
		out := make(map[string]string, len(table))
		flatten("", table, out)
		flat[lang] = out
	}

	t.mu.Lock()
	t.strings = flat
	t.active = matchLanguage(t.wanted, flat)
	active := t.active
	t.mu.Unlock()

	t.logger.LogAttrs(ctx, slog.LevelDebug, "string resources loaded",
		logger.Component("resources"),
		slog.String("language", active),
		slog.Any("languages", slices.Sorted(maps.Keys(flat))),
	)
	return nil
}

// SetLanguage switches the preferred language and returns the language that
// was actually selected.
func (t *Table) SetLanguage(lang string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wanted = lang
	t.active = matchLanguage(lang, t.strings)
	return t.active
}

// Language returns the active language.
func (t *Table) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Lookup returns the raw template for key.
func (t *Table) Lookup(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s, ok := t.strings[t.active][key]; ok {
		return s, true
	}
	s, ok := t.strings[t.fallback][key]
	return s, ok
}

// Resolve returns the template for key formatted with args.
func (t *Table) Resolve(key string, args ...string) (string, error) {
	tmpl, ok := t.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, key)
	}
	return Format(tmpl, args...)
}

// Get is Resolve without the error detail.
func (t *Table) Get(key string, args ...string) (string, bool) {
	s, err := t.Resolve(key, args...)
	return s, err == nil
}

func matchLanguage(wanted string, available map[string]map[string]string) string {
	if len(available) == 0 {
		return wanted
	}
	if _, ok := available[wanted]; ok {
		return wanted
	}

	names := slices.Sorted(maps.Keys(available))
	tags := make([]language.Tag, 0, len(names))
	valid := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, name)
	}
	if len(tags) == 0 {
		return wanted
	}

	want, err := language.Parse(wanted)
	if err != nil {
		return wanted
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return wanted
	}
	return valid[idx]
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		case int:
			out[key] = strconv.Itoa(val)
		case float64:
			out[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(val)
		}
	}
}
