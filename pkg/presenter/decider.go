package presenter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/payload"
	"github.com/dmitrymomot/pushkit/pkg/registry"
)

// TrayState is what the tray shows when a message arrives.
type TrayState struct {
	Count int
	TopID int
}

// TrayStateOf builds a TrayState from active ids, most recent first.
func TrayStateOf(ids []int) TrayState {
	if len(ids) == 0 {
		return TrayState{}
	}
	return TrayState{Count: len(ids), TopID: ids[0]}
}

// Decision is the outcome of Decide.
type Decision struct {
	// Render is nil when the record has neither title nor message.
	Render *RenderRequest
	// ClearTray removes every visible notification before Render is shown.
	ClearTray bool
	Alert     Alert
	// Grouped is true when Render is the group summary.
	Grouped bool
}

// Decider turns records into render decisions.
type Decider struct {
	cfg      Config
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Decider.
type Option func(*Decider)

// WithLogger sets the logger for unresolved icons and bad options.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decider) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDecider returns a Decider recording displayed messages in reg.
func NewDecider(cfg Config, reg *registry.Registry, opts ...Option) *Decider {
	d := &Decider{cfg: cfg.withDefaults(), registry: reg, logger: logger.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GroupSummaryID returns the reserved id of the group summary.
func (d *Decider) GroupSummaryID() int {
	return d.cfg.GroupSummaryID
}

// Registry returns the registry the decider records messages in.
func (d *Decider) Registry() *registry.Registry {
	return d.registry
}

// Decide records rec in the registry and picks what to render.
//
// With an empty tray the message is shown on its own. Otherwise every
// pending body is aggregated into the group summary, and the tray is cleared
// first unless the group summary is already on top. Two messages decided
// concurrently may both see a tray without the summary and both clear it.
func (d *Decider) Decide(ctx context.Context, rec payload.Record, tray TrayState) Decision {
	title := rec.Get(payload.KeyTitle)
	message := rec.Get(payload.KeyMessage)
	if title == "" && message == "" {
		return Decision{}
	}
	if title == "" {
		title = d.cfg.AppName
	}

	id := NotificationID(rec)
	body := message
	if rec.Get(payload.KeyStyle) == payload.StylePicture {
		body = ""
	}
	summary := d.registry.Track(id, body, LinkedItemID(rec))

	decision := Decision{Alert: Escalate(rec)}
	if tray.Count == 0 {
		req := d.standalone(ctx, rec, id, title, message, summary)
		decision.Render = &req
		return decision
	}

	req := d.group(ctx, rec, title, summary)
	decision.Render = &req
	decision.Grouped = true
	decision.ClearTray = tray.TopID != d.cfg.GroupSummaryID

	d.logger.LogAttrs(ctx, slog.LevelDebug, "grouping notifications",
		logger.Component("presenter"),
		logger.NotificationID(id),
		slog.Int("entries", summary.Count()),
		slog.Bool("clear_tray", decision.ClearTray),
	)
	return decision
}

// Rebuild recomputes the group summary from the registry, using rec for the
// title and summary template. It returns nil when nothing is left to show.
func (d *Decider) Rebuild(ctx context.Context, rec payload.Record) *RenderRequest {
	summary := d.registry.Summary()
	if summary.Count() == 0 {
		return nil
	}
	title := rec.Get(payload.KeyTitle)
	if title == "" {
		title = d.cfg.AppName
	}
	req := d.group(ctx, rec, title, summary)
	d.logger.LogAttrs(ctx, slog.LevelDebug, "group summary rebuilt",
		logger.Component("presenter"),
		slog.Int("entries", summary.Count()),
	)
	return &req
}

func (d *Decider) standalone(ctx context.Context, rec payload.Record, id int, title, message string, summary registry.GroupSummary) RenderRequest {
	req := d.base(ctx, rec)
	req.ID = id
	req.Title = title
	req.Body = message
	req.Vibration = ParseVibration(rec.Get(payload.KeyVibrationPattern))
	req.Sound = ParseSound(rec.Get(payload.KeySound))
	req.Ongoing = rec.Bool(payload.KeyOngoing)
	if n, ok := Badge(rec); ok {
		req.Number = &n
	}
	if Critical(rec) {
		req.Category = CategoryAlarm
	}
	req.Actions = d.actions(ctx, rec)

	custom := rec.Get(payload.KeySummaryText)
	switch Style(rec.Get(payload.KeyStyle)) {
	case StyleInbox:
		lines := messagesFor(summary, id)
		if len(lines) > 1 {
			req.Style = StyleInbox
			req.Lines = lines
			req.SummaryText = d.summaryLine(custom, len(lines))
		} else {
			req.Style = StyleText
			req.SummaryText = custom
		}
	case StylePicture:
		req.Style = StylePicture
		req.Picture = rec.Get(payload.KeyPicture)
		req.SummaryText = custom
	default:
		req.Style = StyleText
		req.SummaryText = custom
	}
	return req
}

func (d *Decider) group(ctx context.Context, rec payload.Record, title string, summary registry.GroupSummary) RenderRequest {
	req := d.base(ctx, rec)
	req.ID = d.cfg.GroupSummaryID
	req.Title = title
	req.Style = StyleInbox
	req.Lines = summary.Bodies()
	req.SummaryText = d.summaryLine(rec.Get(payload.KeySummaryText), summary.Count())
	req.Body = req.SummaryText
	req.GroupSummary = true
	req.Silent = true
	req.OnlyAlertOnce = true

	grouped := make(map[string]string, len(summary.LastBodies))
	for id, body := range summary.LastBodies {
		grouped[strconv.Itoa(id)] = body
	}
	groupedJSON, _ := json.Marshal(grouped)

	req.Extras = rec.With(
		payload.Field{Key: payload.KeyOpenAllNotifications, Value: strings.Join(summary.LinkedIDs, ",")},
		payload.Field{Key: payload.KeyGroupedNotifications, Value: string(groupedJSON)},
	)
	return req
}

// base fills the fields shared by standalone and group requests.
func (d *Decider) base(ctx context.Context, rec payload.Record) RenderRequest {
	req := RenderRequest{
		Icon:      d.icon(ctx, rec),
		LargeIcon: largeIcon(rec),
		ChannelID: d.cfg.ChannelID,
		GroupKey:  d.cfg.GroupKey,
		Extras:    rec,
	}
	if ch := rec.Get(payload.KeyChannelID); ch != "" {
		req.ChannelID = ch
	}

	if raw := rec.Get(payload.KeyLedColor); raw != "" {
		led, err := ParseLED(raw)
		if err != nil {
			d.warn(ctx, "invalid led color ignored", payload.KeyLedColor, err)
		} else {
			req.LED = led
		}
	}
	if raw := rec.Get(payload.KeyPriority); raw != "" {
		p, err := ParsePriority(raw)
		if err != nil {
			d.warn(ctx, "invalid priority ignored", payload.KeyPriority, err)
		} else {
			req.Priority = p
		}
	}
	if raw := rec.Get(payload.KeyVisibility); raw != "" {
		v, err := ParseVisibility(raw)
		if err != nil {
			d.warn(ctx, "invalid visibility ignored", payload.KeyVisibility, err)
		} else {
			req.Visibility = &v
		}
	}
	return req
}

func (d *Decider) icon(ctx context.Context, rec payload.Record) Icon {
	icon := Icon{Name: d.cfg.DefaultIcon, Color: d.cfg.IconColor}
	if name := rec.Get(payload.KeyIcon); name != "" {
		icon.Name = name
	}
	if raw := rec.Get(payload.KeyColor); raw != "" {
		color, err := ParseIconColor(raw)
		if err != nil {
			d.warn(ctx, "invalid icon color ignored", payload.KeyColor, err)
		} else {
			icon.Color = color
		}
	}
	return icon
}

func (d *Decider) actions(ctx context.Context, rec payload.Record) []Action {
	raw := rec.Get(payload.KeyActions)
	if raw == "" {
		return nil
	}
	actions, err := ParseActions(raw, d.cfg.InlineReplyLabel)
	if err != nil {
		d.warn(ctx, "invalid actions ignored", payload.KeyActions, err)
		return nil
	}
	return actions
}

func (d *Decider) warn(ctx context.Context, msg, key string, err error) {
	d.logger.LogAttrs(ctx, slog.LevelWarn, msg,
		logger.Component("presenter"),
		logger.Key(key),
		logger.Error(err),
	)
}

// summaryLine renders the "%n%" template. A custom template is replaced by
// the singular one when count is 1.
func (d *Decider) summaryLine(custom string, count int) string {
	tmpl := custom
	switch {
	case custom == "":
		tmpl = d.cfg.SummaryTemplate
	case count == 1:
		tmpl = d.cfg.SingularSummaryTemplate
	}
	return strings.ReplaceAll(tmpl, "%n%", strconv.Itoa(count))
}

func largeIcon(rec payload.Record) *LargeIcon {
	src := rec.Get(payload.KeyImage)
	if src == "" {
		return nil
	}
	return &LargeIcon{
		Source: src,
		Remote: strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"),
		Circle: rec.Get(payload.KeyImageType) == "circle",
	}
}

func messagesFor(summary registry.GroupSummary, id int) []string {
	var out []string
	for _, e := range summary.Entries {
		if e.ID == id {
			out = append(out, e.Body)
		}
	}
	return out
}
