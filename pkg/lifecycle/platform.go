package lifecycle

import (
	"context"

	"github.com/dmitrymomot/pushkit/pkg/presenter"
)

// Tray is the OS notification tray.
type Tray interface {
	// Active returns the ids currently shown, most recent first.
	Active(ctx context.Context) ([]int, error)
	Notify(ctx context.Context, req presenter.RenderRequest) error
	Cancel(ctx context.Context, id int) error
	CancelAll(ctx context.Context) error
}

// Effects are device side effects outside the tray.
type Effects interface {
	Alert(ctx context.Context, alert presenter.Alert) error
	SetBadge(ctx context.Context, count int) error
}

// AppState describes the hosting application.
type AppState struct {
	// Foreground is true while the app is visible.
	Foreground bool
	// Active is true once the app has initialized and can receive events.
	Active bool
}

// AppStateFunc reports the current AppState.
type AppStateFunc func() AppState

type noEffects struct{}

func (noEffects) Alert(context.Context, presenter.Alert) error { return nil }
func (noEffects) SetBadge(context.Context, int) error          { return nil }
