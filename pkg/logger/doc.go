// Package logger builds the structured *slog.Logger shared by every pushkit
// component.
//
// New assembles a text or JSON slog.Handler from functional options and wraps
// it with a decorator that copies values stored in context.Context onto each
// record. The router stores the id of the lifecycle event it is handling in
// the context (see WithEventID), so every line logged while a push is being
// received, tapped or dismissed carries the same "event_id".
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "pushd"),
//	    logger.WithEventContext(),
//	)
//
//	ctx = logger.WithEventID(ctx, "4a3c...")
//	log.LogAttrs(ctx, slog.LevelInfo, "notification rendered",
//	    logger.Component("lifecycle"),
//	    logger.NotificationID(42),
//	)
//
// Attribute helpers (Error, NotificationID, LinkedItemID, Style, ...) keep key
// names consistent across packages. Error and Errors return an empty attribute
// for nil errors, so they can be passed unconditionally.
//
// Discard returns a logger that drops everything; components use it when no
// logger is configured.
package logger
