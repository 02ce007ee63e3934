package payload

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// Extractor flattens a raw Bag into a Record.
type Extractor struct {
	cfg        Config
	normalizer *Normalizer
	localizer  *Localizer
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLocalizer enables localization of title, message and summaryText.
func WithLocalizer(l *Localizer) Option {
	return func(e *Extractor) { e.localizer = l }
}

// WithLogger sets the logger for malformed nested payloads.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor returns an Extractor for the keys named in cfg.
func NewExtractor(cfg Config, opts ...Option) *Extractor {
	e := &Extractor{
		cfg:        cfg,
		normalizer: NewNormalizer(cfg),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalizer returns the key normalizer used by e.
func (e *Extractor) Normalizer() *Normalizer {
	return e.normalizer
}

// Extract builds the canonical record for bag. Keys are visited in lexical
// order; when two raw keys map onto the same canonical key the later one
// wins. Extract accepts a Record as well, since a Record is a valid Bag.
func (e *Extractor) Extract(ctx context.Context, bag map[string]any) Record {
	out := make(Record, len(bag))
	for _, key := range slices.Sorted(maps.Keys(bag)) {
		e.visit(ctx, key, bag[key], out)
	}
	return out
}

// visit routes one field into out. Every message alias is unwrapped like
// data, so a body that lands under message is never promoted later.
func (e *Extractor) visit(ctx context.Context, key string, value any, out Record) {
	switch {
	case key == keyNotificationBlock:
		e.flattenBlock(ctx, key, value, out)
	case e.isWrapper(key):
		e.unwrap(ctx, key, value, out)
	default:
		e.put(ctx, key, value, out)
	}
}

func (e *Extractor) isWrapper(key string) bool {
	return key == keyData || e.normalizer.IsMessageKey(key)
}

// unwrap handles a data wrapper or a message alias. A JSON object carrying
// message-bearing fields has every field promoted to the top level; any
// other value is kept under the wrapper's own (normalized) key.
func (e *Extractor) unwrap(ctx context.Context, key string, value any, out Record) {
	var obj map[string]any
	switch v := value.(type) {
	case map[string]any:
		obj = v
	case string:
		parsed := Classify(v)
		switch parsed.Kind {
		case KindObject:
			obj = parsed.Object
		case KindParseFailure:
			e.logger.LogAttrs(ctx, slog.LevelWarn, "nested payload is not valid JSON",
				logger.Component("extractor"),
				logger.Key(key),
				logger.Error(parsed.Err),
			)
		}
	}

	if obj == nil || !e.promotable(obj) {
		e.put(ctx, key, value, out)
		return
	}

	for _, field := range slices.Sorted(maps.Keys(obj)) {
		v := obj[field]
		if v == nil {
			continue
		}
		e.visit(ctx, field, stringify(v), out)
	}
}

func (e *Extractor) promotable(obj map[string]any) bool {
	for _, k := range []string{aliasAlert, KeyMessage, aliasBody, KeyTitle, e.cfg.MessageKey, e.cfg.TitleKey} {
		if k == "" {
			continue
		}
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// flattenBlock copies every field of the nested notification block.
func (e *Extractor) flattenBlock(ctx context.Context, key string, value any, out Record) {
	var block map[string]any
	switch v := value.(type) {
	case map[string]any:
		block = v
	case map[string]string:
		block = make(map[string]any, len(v))
		for k, s := range v {
			block[k] = s
		}
	case string:
		parsed := Classify(v)
		if parsed.Kind == KindObject {
			block = parsed.Object
		}
	}

	if block == nil {
		e.put(ctx, key, value, out)
		return
	}
	for _, field := range slices.Sorted(maps.Keys(block)) {
		e.visit(ctx, field, block[field], out)
	}
}

// put stores value under the canonical form of key. Text is stored in NFC.
func (e *Extractor) put(ctx context.Context, key string, value any, out Record) {
	v, ok := scalar(value)
	if !ok {
		return
	}
	canonical, implied := e.normalizer.NormalizeKey(key)
	if s, isText := v.(string); isText {
		v = norm.NFC.String(e.localizer.Localize(ctx, canonical, s))
	}
	out[canonical] = v
	if implied != nil {
		out[implied.Key] = implied.Value
	}
}
