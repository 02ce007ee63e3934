package tray

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/media"
	"github.com/dmitrymomot/pushkit/pkg/presenter"
)

// Fetcher downloads remote images.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (media.Image, error)
}

// Notification is a shown notification.
type Notification struct {
	Request presenter.RenderRequest `json:"request"`
	// Title and Text are the plain-text renditions.
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Picture   *media.Image `json:"-"`
	LargeIcon *media.Image `json:"-"`
	PostedAt  time.Time    `json:"postedAt"`
}

// MemoryTray holds notifications in memory.
type MemoryTray struct {
	mu      sync.RWMutex
	items   []Notification
	alerts  []presenter.Alert
	badge   int
	fetcher Fetcher
	logger  *slog.Logger
}

// Option configures a MemoryTray.
type Option func(*MemoryTray)

// WithFetcher enables image downloads.
func WithFetcher(f Fetcher) Option {
	return func(t *MemoryTray) {
		t.fetcher = f
	}
}

// WithLogger sets the tray logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *MemoryTray) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns an empty tray.
func New(opts ...Option) *MemoryTray {
	t := &MemoryTray{logger: logger.Discard()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Active returns the shown ids, most recent first.
func (t *MemoryTray) Active(ctx context.Context) ([]int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int, len(t.items))
	for i, n := range t.items {
		ids[i] = n.Request.ID
	}
	return ids, nil
}

// Notify shows req, replacing any notification with the same id.
func (t *MemoryTray) Notify(ctx context.Context, req presenter.RenderRequest) error {
	n := Notification{
		Request:  req,
		Title:    PlainText(req.Title),
		Text:     PlainText(req.Body),
		PostedAt: time.Now().UTC(),
	}
	if t.fetcher != nil {
		if req.Picture != "" {
			n.Picture = t.fetch(ctx, req.ID, req.Picture)
		}
		if req.LargeIcon != nil && req.LargeIcon.Remote {
			n.LargeIcon = t.fetch(ctx, req.ID, req.LargeIcon.Source)
		}
	}

	t.mu.Lock()
	t.items = slices.DeleteFunc(t.items, func(old Notification) bool {
		return old.Request.ID == req.ID
	})
	t.items = slices.Insert(t.items, 0, n)
	t.mu.Unlock()
	return nil
}

// Cancel removes notification id, if shown.
func (t *MemoryTray) Cancel(ctx context.Context, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = slices.DeleteFunc(t.items, func(n Notification) bool {
		return n.Request.ID == id
	})
	return nil
}

// CancelAll removes every notification.
func (t *MemoryTray) CancelAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = nil
	return nil
}

// Alert records a played alert.
func (t *MemoryTray) Alert(ctx context.Context, alert presenter.Alert) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alerts = append(t.alerts, alert)
	return nil
}

// SetBadge sets the launcher badge. Negative counts become zero.
func (t *MemoryTray) SetBadge(ctx context.Context, count int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.badge = max(count, 0)
	return nil
}

// Get returns the notification shown under id.
func (t *MemoryTray) Get(id int) (Notification, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, n := range t.items {
		if n.Request.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// List returns the shown notifications, most recent first.
func (t *MemoryTray) List() []Notification {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.items)
}

// Badge returns the launcher badge count.
func (t *MemoryTray) Badge() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.badge
}

// Alerts returns a copy of the alerts played so far.
func (t *MemoryTray) Alerts() []presenter.Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.alerts)
}

func (t *MemoryTray) fetch(ctx context.Context, id int, url string) *media.Image {
	img, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		t.logger.LogAttrs(ctx, slog.LevelWarn, "image unavailable, showing without it",
			logger.Component("tray"),
			logger.NotificationID(id),
			logger.URL(url),
			logger.Error(err),
		)
		return nil
	}
	return &img
}
