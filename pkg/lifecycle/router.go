package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/payload"
	"github.com/dmitrymomot/pushkit/pkg/presenter"
	"github.com/dmitrymomot/pushkit/pkg/registry"
)

// topicPrefix marks messages sent to a topic rather than by a sender.
const topicPrefix = "/topics/"

// Router routes lifecycle events between the tray, the registry and the
// application bridge.
type Router struct {
	cfg       Config
	extractor *payload.Extractor
	decider   *presenter.Decider
	registry  *registry.Registry
	tray      Tray
	effects   Effects
	bridge    bridge.Bridge
	appState  AppStateFunc
	logger    *slog.Logger

	// groupRecord is the last record rendered as the group summary. It
	// supplies title and template when a dismissal rebuilds the summary.
	groupMu     sync.Mutex
	groupRecord payload.Record

	handoffs  sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
}

// Option configures a Router.
type Option func(*Router)

// WithExtractor sets the payload extractor. The default uses the
// "message" and "title" keys.
func WithExtractor(e *payload.Extractor) Option {
	return func(r *Router) {
		if e != nil {
			r.extractor = e
		}
	}
}

// WithEffects sets the sink for alerts and the badge. The default drops both.
func WithEffects(e Effects) Option {
	return func(r *Router) {
		if e != nil {
			r.effects = e
		}
	}
}

// WithAppState sets the app state source. By default the app is in the
// background and active whenever the bridge is ready.
func WithAppState(fn AppStateFunc) Option {
	return func(r *Router) {
		if fn != nil {
			r.appState = fn
		}
	}
}

// WithLogger sets the router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a Router sharing the decider's registry.
func NewRouter(cfg Config, decider *presenter.Decider, tray Tray, br bridge.Bridge, opts ...Option) *Router {
	r := &Router{
		cfg:       cfg.withDefaults(),
		extractor: payload.NewExtractor(payload.Config{MessageKey: payload.KeyMessage, TitleKey: payload.KeyTitle}),
		decider:   decider,
		registry:  decider.Registry(),
		tray:      tray,
		effects:   noEffects{},
		bridge:    br,
		logger:    logger.Discard(),
		closing:   make(chan struct{}),
	}
	r.appState = func() AppState { return AppState{Active: br.Ready()} }
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle applies ev. It is the only transition function; Received, Tapped
// and Dismissed are shorthands for it.
func (r *Router) Handle(ctx context.Context, ev Event) error {
	if _, ok := logger.EventIDFromContext(ctx); !ok {
		ctx = logger.WithEventID(ctx, uuid.NewString())
	}
	switch e := ev.(type) {
	case Received:
		return r.received(ctx, e)
	case Tapped:
		return r.tapped(ctx, e)
	case Dismissed:
		return r.dismissed(ctx, e)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

// Received handles bag as a message from the configured sender.
func (r *Router) Received(ctx context.Context, bag payload.Bag) error {
	return r.Handle(ctx, Received{Bag: bag, From: r.cfg.SenderID})
}

// Tapped handles a tap on in.
func (r *Router) Tapped(ctx context.Context, in Interaction) error {
	return r.Handle(ctx, Tapped{Interaction: in})
}

// Dismissed handles a swipe-away of in.
func (r *Router) Dismissed(ctx context.Context, in Interaction) error {
	return r.Handle(ctx, Dismissed{Interaction: in})
}

// SenderID returns the configured sender id.
func (r *Router) SenderID() string {
	return r.cfg.SenderID
}

// Close waits for pending hand-offs. When ctx ends first the remaining
// hand-offs are dropped.
func (r *Router) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.handoffs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.closeOnce.Do(func() { close(r.closing) })
		<-done
		return ctx.Err()
	}
}

// acceptsSender reports whether messages from from are handled.
func (r *Router) acceptsSender(from string) bool {
	return r.cfg.SenderID == "" || from == r.cfg.SenderID || strings.HasPrefix(from, topicPrefix)
}

func (r *Router) received(ctx context.Context, e Received) error {
	if !r.acceptsSender(e.From) {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "message from unknown sender dropped",
			logger.Component("lifecycle"),
			logger.EventType(Received{}.eventType()),
			slog.String("from", e.From),
		)
		return nil
	}

	rec := r.extractor.Extract(ctx, e.Bag)
	state := r.appState()

	r.logger.LogAttrs(ctx, slog.LevelDebug, "message received",
		logger.Component("lifecycle"),
		logger.EventType(Received{}.eventType()),
		logger.NotificationID(presenter.NotificationID(rec)),
		slog.Bool("foreground", state.Foreground),
		slog.Bool("active", state.Active),
	)

	var errs []error
	if r.cfg.ClearBadge {
		if err := r.effects.SetBadge(ctx, 0); err != nil {
			r.logFailure(ctx, "failed to clear badge", err)
		}
	}

	if state.Foreground && !r.cfg.ForceShow {
		ev := bridge.NewEvent(bridge.KindReceived, rec)
		ev.NotificationID = presenter.NotificationID(rec)
		ev.Foreground = true
		return r.handoff(ctx, ev)
	}

	if n, ok := presenter.Badge(rec); ok {
		if err := r.effects.SetBadge(ctx, n); err != nil {
			r.logFailure(ctx, "failed to set badge", err)
		}
		if n == 0 {
			if err := r.tray.CancelAll(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%w: cancel all: %w", ErrTrayFailure, err))
			}
		}
	}

	if rec.Has(payload.KeyTitle) || rec.Has(payload.KeyMessage) {
		if err := r.render(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}

	switch {
	case !state.Active && rec.Flag(payload.KeyForceStart):
		ev := bridge.NewEvent(bridge.KindStartInBackground, rec)
		ev.NotificationID = presenter.NotificationID(rec)
		ev.Coldstart = true
		if err := r.handoff(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	case rec.Flag(payload.KeyContentAvailable):
		ev := bridge.NewEvent(bridge.KindReceived, rec)
		ev.NotificationID = presenter.NotificationID(rec)
		ev.Foreground = state.Foreground
		ev.Coldstart = !state.Active
		if err := r.handoff(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Router) render(ctx context.Context, rec payload.Record) error {
	ids, err := r.tray.Active(ctx)
	if err != nil {
		return fmt.Errorf("%w: active: %w", ErrTrayFailure, err)
	}

	decision := r.decider.Decide(ctx, rec, presenter.TrayStateOf(ids))
	if decision.Render == nil {
		return nil
	}

	if !decision.Alert.Empty() {
		if err := r.effects.Alert(ctx, decision.Alert); err != nil {
			r.logFailure(ctx, "failed to play alert", err)
		}
	}
	if decision.ClearTray {
		if err := r.tray.CancelAll(ctx); err != nil {
			return fmt.Errorf("%w: cancel all: %w", ErrTrayFailure, err)
		}
	}
	if decision.Grouped {
		r.groupMu.Lock()
		r.groupRecord = rec
		r.groupMu.Unlock()
	}

	if err := r.tray.Notify(ctx, *decision.Render); err != nil {
		return fmt.Errorf("%w: notify %d: %w", ErrTrayFailure, decision.Render.ID, err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "notification shown",
		logger.Component("lifecycle"),
		logger.NotificationID(decision.Render.ID),
		logger.Style(string(decision.Render.Style)),
		slog.Bool("grouped", decision.Grouped),
		slog.Bool("cleared_tray", decision.ClearTray),
	)
	return nil
}

func (r *Router) tapped(ctx context.Context, e Tapped) error {
	var errs []error
	groupID := r.decider.GroupSummaryID()

	if e.NotificationID == groupID {
		r.registry.Reset()
		if err := r.tray.Cancel(ctx, groupID); err != nil {
			errs = append(errs, fmt.Errorf("%w: cancel group: %w", ErrTrayFailure, err))
		}
	} else {
		if err := r.tray.Cancel(ctx, e.NotificationID); err != nil {
			errs = append(errs, fmt.Errorf("%w: cancel %d: %w", ErrTrayFailure, e.NotificationID, err))
		}
		if r.consume(ctx, e.Interaction) == 0 {
			if err := r.tray.Cancel(ctx, groupID); err != nil {
				errs = append(errs, fmt.Errorf("%w: cancel group: %w", ErrTrayFailure, err))
			}
		}
	}

	ev := bridge.NewEvent(bridge.KindTapped, e.Payload)
	ev.NotificationID = e.NotificationID
	ev.Tapped = true
	ev.Coldstart = !r.appState().Active
	ev.ActionCallback = e.ActionCallback
	ev.InlineReply = e.InlineReply
	if err := r.handoff(ctx, ev); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Router) dismissed(ctx context.Context, e Dismissed) error {
	groupID := r.decider.GroupSummaryID()
	if e.NotificationID == groupID {
		r.registry.Reset()
		r.logger.LogAttrs(ctx, slog.LevelDebug, "group summary dismissed",
			logger.Component("lifecycle"),
			logger.EventType(e.eventType()),
		)
		return nil
	}

	if r.consume(ctx, e.Interaction) == 0 {
		if err := r.tray.Cancel(ctx, groupID); err != nil {
			return fmt.Errorf("%w: cancel group: %w", ErrTrayFailure, err)
		}
		return nil
	}

	ids, err := r.tray.Active(ctx)
	if err != nil {
		return fmt.Errorf("%w: active: %w", ErrTrayFailure, err)
	}
	if !slices.Contains(ids, groupID) {
		return nil
	}

	r.groupMu.Lock()
	rec := r.groupRecord
	r.groupMu.Unlock()
	if rec == nil {
		rec = e.Payload
	}

	req := r.decider.Rebuild(ctx, rec)
	if req == nil {
		if err := r.tray.Cancel(ctx, groupID); err != nil {
			return fmt.Errorf("%w: cancel group: %w", ErrTrayFailure, err)
		}
		return nil
	}
	// The rebuilt summary replaces the visible one without alerting again.
	req.OnlyAlertOnce = true
	if err := r.tray.Notify(ctx, *req); err != nil {
		return fmt.Errorf("%w: notify group: %w", ErrTrayFailure, err)
	}
	return nil
}

// consume drops the interaction's registry entry and linked item id and
// returns how many linked ids remain.
func (r *Router) consume(ctx context.Context, in Interaction) int {
	linked := presenter.LinkedItemID(in.Payload)
	remaining := r.registry.Consume(in.NotificationID, linked)
	r.logger.LogAttrs(ctx, slog.LevelDebug, "notification consumed",
		logger.Component("lifecycle"),
		logger.NotificationID(in.NotificationID),
		logger.LinkedItemID(linked),
		slog.Int("remaining", remaining),
	)
	return remaining
}

func (r *Router) logFailure(ctx context.Context, msg string, err error) {
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg,
		logger.Component("lifecycle"),
		logger.Error(err),
	)
}
