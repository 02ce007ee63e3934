package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// handoff delivers ev now when the bridge is ready. Otherwise it polls the
// bridge in the background and drops ev once the attempts run out.
func (r *Router) handoff(ctx context.Context, ev bridge.Event) error {
	if r.bridge.Ready() {
		if err := r.bridge.Deliver(ctx, ev); err != nil {
			return fmt.Errorf("%w: %w", ErrBridgeFailure, err)
		}
		return nil
	}

	r.handoffs.Add(1)
	go r.poll(context.WithoutCancel(ctx), ev)
	return nil
}

func (r *Router) poll(ctx context.Context, ev bridge.Event) {
	defer r.handoffs.Done()

	ticker := time.NewTicker(r.cfg.HandoffInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= r.cfg.HandoffMaxAttempts; attempt++ {
		select {
		case <-r.closing:
			r.logger.LogAttrs(ctx, slog.LevelWarn, "router closed, event dropped",
				logger.Component("lifecycle"),
				logger.EventType(string(ev.Kind)),
				logger.NotificationID(ev.NotificationID),
			)
			return
		case <-ticker.C:
		}

		if !r.bridge.Ready() {
			continue
		}
		if err := r.bridge.Deliver(ctx, ev); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to deliver event",
				logger.Component("lifecycle"),
				logger.EventType(string(ev.Kind)),
				logger.Attempt(attempt),
				logger.Error(err),
			)
			return
		}
		r.logger.LogAttrs(ctx, slog.LevelDebug, "event handed off",
			logger.Component("lifecycle"),
			logger.EventType(string(ev.Kind)),
			logger.Attempt(attempt),
		)
		return
	}

	r.logger.LogAttrs(ctx, slog.LevelWarn, "bridge not ready, event dropped",
		logger.Component("lifecycle"),
		logger.EventType(string(ev.Kind)),
		logger.NotificationID(ev.NotificationID),
		logger.Duration(r.cfg.HandoffInterval*time.Duration(r.cfg.HandoffMaxAttempts)),
	)
}
