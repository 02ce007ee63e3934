package logger

import (
	"context"
	"log/slog"
)

type eventIDKey struct{}

// WithEventID stores the lifecycle event id in ctx.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}

// EventIDFromContext returns the lifecycle event id stored in ctx, if any.
func EventIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(eventIDKey{}).(string)
	return id, ok && id != ""
}

func eventIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := EventIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("event_id", id), true
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
