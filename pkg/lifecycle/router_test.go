package lifecycle_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/payload"
	"github.com/dmitrymomot/pushkit/pkg/presenter"
	"github.com/dmitrymomot/pushkit/pkg/registry"
	"github.com/dmitrymomot/pushkit/pkg/tray"
)

const groupID = presenter.DefaultGroupSummaryID

// countingTray counts CancelAll calls on top of an in-memory tray.
type countingTray struct {
	*tray.MemoryTray
	cancelAlls atomic.Int32
}

func (t *countingTray) CancelAll(ctx context.Context) error {
	t.cancelAlls.Add(1)
	return t.MemoryTray.CancelAll(ctx)
}

type mockTray struct {
	mock.Mock
}

func (m *mockTray) Active(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

func (m *mockTray) Notify(ctx context.Context, req presenter.RenderRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockTray) Cancel(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTray) CancelAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	router   *lifecycle.Router
	tray     *countingTray
	bridge   *bridge.MemoryBridge
	registry *registry.Registry
	state    *atomic.Value
}

func newFixture(t *testing.T, cfg lifecycle.Config) *fixture {
	t.Helper()
	reg := registry.New()
	decider := presenter.NewDecider(presenter.Config{AppName: "Acme"}, reg)
	tr := &countingTray{MemoryTray: tray.New()}
	br := bridge.NewMemoryBridge(bridge.WithReady(true))
	state := &atomic.Value{}
	state.Store(lifecycle.AppState{Active: true})

	if cfg.HandoffInterval == 0 {
		cfg.HandoffInterval = 5 * time.Millisecond
	}
	router := lifecycle.NewRouter(cfg, decider, tr, br,
		lifecycle.WithEffects(tr),
		lifecycle.WithAppState(func() lifecycle.AppState {
			return state.Load().(lifecycle.AppState)
		}),
	)
	t.Cleanup(func() {
		_ = router.Close(context.Background())
		_ = br.Close()
	})
	return &fixture{router: router, tray: tr, bridge: br, registry: reg, state: state}
}

func (f *fixture) activeIDs(t *testing.T) []int {
	t.Helper()
	ids, err := f.tray.Active(context.Background())
	require.NoError(t, err)
	return ids
}

func message(id int, body, linked string) payload.Bag {
	bag := payload.Bag{
		"title":          "Inbox",
		"message":        body,
		"notificationId": strconv.Itoa(id),
	}
	if linked != "" {
		bag["linkedItemId"] = linked
	}
	return bag
}

func receiveOne(t *testing.T, sub *bridge.Subscription) bridge.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
		return bridge.Event{}
	}
}

func assertNoEvent(t *testing.T, sub *bridge.Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %s", ev.Kind)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestRouter_ReceivedShowsStandalone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})
	ctx := context.Background()

	require.NoError(t, f.router.Received(ctx, message(1, "Hello", "")))

	assert.Equal(t, []int{1}, f.activeIDs(t))
	n, ok := f.tray.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Inbox", n.Title)
	assert.Equal(t, "Hello", n.Text)
	assert.Equal(t, presenter.StyleText, n.Request.Style)
}

func TestRouter_SecondMessageGroups(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})
	ctx := context.Background()

	require.NoError(t, f.router.Received(ctx, message(1, "A", "item-1")))
	require.NoError(t, f.router.Received(ctx, message(2, "B", "item-2")))

	assert.Equal(t, []int{groupID}, f.activeIDs(t))
	n, ok := f.tray.Get(groupID)
	require.True(t, ok)
	assert.True(t, n.Request.GroupSummary)
	assert.Equal(t, presenter.StyleInbox, n.Request.Style)
	assert.Equal(t, []string{"A", "B"}, n.Request.Lines)
	assert.Equal(t, "2 more", n.Request.SummaryText)
	assert.Equal(t, "item-1,item-2", n.Request.Extras.Get(payload.KeyOpenAllNotifications))
	assert.Equal(t, int32(1), f.tray.cancelAlls.Load())

	// The summary is on top now, so the next message updates it in place.
	require.NoError(t, f.router.Received(ctx, message(3, "C", "item-3")))
	assert.Equal(t, int32(1), f.tray.cancelAlls.Load())
	n, _ = f.tray.Get(groupID)
	assert.Equal(t, []string{"A", "B", "C"}, n.Request.Lines)
	assert.Equal(t, []int{groupID}, f.activeIDs(t))
}

func TestRouter_EmptyMessageShowsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})

	require.NoError(t, f.router.Received(context.Background(), payload.Bag{"notificationId": "4", "custom": "x"}))
	assert.Empty(t, f.activeIDs(t))
}

func TestRouter_Foreground(t *testing.T) {
	t.Parallel()

	t.Run("delivers data only", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		f.state.Store(lifecycle.AppState{Foreground: true, Active: true})
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Received(context.Background(), message(8, "Hi", "")))

		ev := receiveOne(t, sub)
		assert.Equal(t, bridge.KindReceived, ev.Kind)
		assert.True(t, ev.Foreground)
		assert.False(t, ev.Coldstart)
		assert.Equal(t, 8, ev.NotificationID)
		assert.Equal(t, "Hi", ev.Payload.Get(payload.KeyMessage))
		assert.Empty(t, f.activeIDs(t))
		assert.Zero(t, f.registry.Summary().Count())
	})

	t.Run("force show renders", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{ForceShow: true})
		f.state.Store(lifecycle.AppState{Foreground: true, Active: true})
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Received(context.Background(), message(8, "Hi", "")))

		assert.Equal(t, []int{8}, f.activeIDs(t))
		assertNoEvent(t, sub)
	})
}

func TestRouter_Badge(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})
	ctx := context.Background()

	bag := message(1, "A", "")
	bag["count"] = "3"
	require.NoError(t, f.router.Received(ctx, bag))
	assert.Equal(t, 3, f.tray.Badge())
	assert.Equal(t, []int{1}, f.activeIDs(t))

	require.NoError(t, f.router.Received(ctx, payload.Bag{"count": "0"}))
	assert.Equal(t, 0, f.tray.Badge())
	assert.Empty(t, f.activeIDs(t))
}

func TestRouter_ClearBadgeOnReceive(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{ClearBadge: true})
	require.NoError(t, f.tray.SetBadge(context.Background(), 9))

	require.NoError(t, f.router.Received(context.Background(), message(1, "A", "")))
	assert.Equal(t, 0, f.tray.Badge())
}

func TestRouter_CriticalAlert(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})

	bag := message(1, "Fire", "")
	bag["notificationCoresType"] = "critical"
	bag["sound"] = "default"
	require.NoError(t, f.router.Received(context.Background(), bag))

	alerts := f.tray.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, presenter.StreamAlarm, alerts[0].Stream)
	assert.True(t, alerts[0].MaxVolume)
	assert.True(t, alerts[0].BypassDND)
	n, _ := f.tray.Get(1)
	assert.Equal(t, presenter.CategoryAlarm, n.Request.Category)
}

func TestRouter_BackgroundDelivery(t *testing.T) {
	t.Parallel()

	t.Run("content available", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		sub := f.bridge.Subscribe(context.Background())

		bag := message(1, "A", "")
		bag["content-available"] = "1"
		require.NoError(t, f.router.Received(context.Background(), bag))

		ev := receiveOne(t, sub)
		assert.Equal(t, bridge.KindReceived, ev.Kind)
		assert.False(t, ev.Foreground)
		assert.Equal(t, []int{1}, f.activeIDs(t))
	})

	t.Run("force start while inactive", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		f.state.Store(lifecycle.AppState{})
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Received(context.Background(), payload.Bag{"force-start": "1", "task": "sync"}))

		ev := receiveOne(t, sub)
		assert.Equal(t, bridge.KindStartInBackground, ev.Kind)
		assert.True(t, ev.Coldstart)
		assert.Equal(t, "sync", ev.Payload.Get("task"))
	})

	t.Run("nothing to deliver", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Received(context.Background(), message(1, "A", "")))
		assertNoEvent(t, sub)
	})
}

func TestRouter_TappedGroupSummary(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})
	ctx := context.Background()
	sub := f.bridge.Subscribe(ctx)

	for i, linked := range []string{"a", "b", "c"} {
		require.NoError(t, f.router.Received(ctx, message(i+1, "m"+linked, linked)))
	}
	require.Equal(t, 3, f.registry.LinkedIDCount())
	group, ok := f.tray.Get(groupID)
	require.True(t, ok)

	require.NoError(t, f.router.Tapped(ctx, lifecycle.Interaction{
		NotificationID: groupID,
		Payload:        group.Request.Extras,
	}))

	assert.Zero(t, f.registry.LinkedIDCount())
	assert.Zero(t, f.registry.Summary().Count())
	assert.Empty(t, f.activeIDs(t))

	ev := receiveOne(t, sub)
	assert.Equal(t, bridge.KindTapped, ev.Kind)
	assert.True(t, ev.Tapped)
	assert.False(t, ev.Coldstart)
	assert.Equal(t, groupID, ev.NotificationID)
	assert.Equal(t, "a,b,c", ev.Payload.Get(payload.KeyOpenAllNotifications))
}

func TestRouter_TappedSingle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, lifecycle.Config{})
	ctx := context.Background()
	sub := f.bridge.Subscribe(ctx)

	// One standalone notification for item "a".
	require.NoError(t, f.router.Received(ctx, message(1, "A", "a")))
	rendered, ok := f.tray.Get(1)
	require.True(t, ok)

	require.NoError(t, f.router.Tapped(ctx, lifecycle.Interaction{
		NotificationID: 1,
		Payload:        rendered.Request.Extras,
		ActionCallback: "reply",
		InlineReply:    "on my way",
	}))

	assert.Empty(t, f.activeIDs(t))
	assert.Zero(t, f.registry.LinkedIDCount())
	assert.Empty(t, f.registry.Messages(1))

	ev := receiveOne(t, sub)
	assert.Equal(t, "reply", ev.ActionCallback)
	assert.Equal(t, "on my way", ev.InlineReply)
	rec := ev.Record()
	assert.Equal(t, true, rec[payload.KeyTapped])
	assert.Equal(t, false, rec[payload.KeyForeground])
}

func TestRouter_TappedKeepsGroupWhileLinkedRemain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := &mockTray{}
	reg := registry.New()
	decider := presenter.NewDecider(presenter.Config{}, reg)
	br := bridge.NewMemoryBridge(bridge.WithReady(true))
	router := lifecycle.NewRouter(lifecycle.Config{}, decider, tr, br)

	reg.AddLinkedID("a")
	reg.AddLinkedID("b")
	tr.On("Cancel", mock.Anything, 1).Return(nil).Once()

	err := router.Tapped(ctx, lifecycle.Interaction{
		NotificationID: 1,
		Payload:        payload.Record{payload.KeyLinkedItemID: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, reg.LinkedIDs())
	tr.AssertExpectations(t)
	tr.AssertNotCalled(t, "Cancel", mock.Anything, groupID)
}

func TestRouter_Dismissed(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds summary from remaining entries", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		ctx := context.Background()
		sub := f.bridge.Subscribe(ctx)

		require.NoError(t, f.router.Received(ctx, message(5, "five", "a")))
		require.NoError(t, f.router.Received(ctx, message(6, "six", "b")))
		require.NoError(t, f.router.Received(ctx, message(7, "seven", "c")))

		require.NoError(t, f.router.Dismissed(ctx, lifecycle.Interaction{
			NotificationID: 5,
			Payload:        payload.Record{payload.KeyLinkedItemID: "a"},
		}))

		assert.Equal(t, []string{"b", "c"}, f.registry.LinkedIDs())
		n, ok := f.tray.Get(groupID)
		require.True(t, ok)
		assert.Equal(t, []string{"six", "seven"}, n.Request.Lines)
		assert.Equal(t, "2 more", n.Request.SummaryText)
		assert.Equal(t, "Inbox", n.Request.Title)
		assertNoEvent(t, sub)
	})

	t.Run("removes summary with last linked item", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		ctx := context.Background()

		require.NoError(t, f.router.Received(ctx, message(5, "five", "a")))
		require.NoError(t, f.router.Received(ctx, message(6, "six", "")))
		require.Equal(t, []int{groupID}, f.activeIDs(t))

		require.NoError(t, f.router.Dismissed(ctx, lifecycle.Interaction{
			NotificationID: 5,
			Payload:        payload.Record{payload.KeyLinkedItemID: "a"},
		}))
		assert.Empty(t, f.activeIDs(t))
	})

	t.Run("group summary resets registry", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		ctx := context.Background()

		require.NoError(t, f.router.Received(ctx, message(5, "five", "a")))
		require.NoError(t, f.router.Received(ctx, message(6, "six", "b")))
		require.NoError(t, f.tray.Cancel(ctx, groupID))

		require.NoError(t, f.router.Dismissed(ctx, lifecycle.Interaction{NotificationID: groupID}))
		assert.Zero(t, f.registry.Summary().Count())
		assert.Zero(t, f.registry.LinkedIDCount())
	})
}

func TestRouter_SenderFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		from  string
		shown bool
	}{
		{name: "configured sender", from: "1234", shown: true},
		{name: "topic", from: "/topics/news", shown: true},
		{name: "unknown sender", from: "9999", shown: false},
		{name: "missing sender", from: "", shown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, lifecycle.Config{SenderID: "1234"})
			sub := f.bridge.Subscribe(context.Background())
			defer sub.Close()

			bag := message(1, "Hello", "")
			bag["content-available"] = "1"
			err := f.router.Handle(context.Background(), lifecycle.Received{Bag: bag, From: tt.from})
			require.NoError(t, err)

			if tt.shown {
				assert.Equal(t, []int{1}, f.activeIDs(t))
				assert.Equal(t, bridge.KindReceived, receiveOne(t, sub).Kind)
				return
			}
			assert.Empty(t, f.activeIDs(t))
			assert.Empty(t, f.registry.Summary().Entries)
			assertNoEvent(t, sub)
		})
	}

	t.Run("shorthand uses the configured sender", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{SenderID: "1234"})
		require.NoError(t, f.router.Received(context.Background(), message(1, "Hello", "")))
		assert.Equal(t, []int{1}, f.activeIDs(t))
	})

	t.Run("no sender configured accepts all", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		err := f.router.Handle(context.Background(), lifecycle.Received{Bag: message(1, "Hello", ""), From: "anyone"})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, f.activeIDs(t))
	})
}

func TestRouter_SlowWebhookDoesNotBlock(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	hook, err := bridge.NewWebhookBridge(srv.URL)
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_ = hook.Close(ctx)
	}()

	reg := registry.New()
	tr := tray.New()
	router := lifecycle.NewRouter(lifecycle.Config{},
		presenter.NewDecider(presenter.Config{AppName: "Acme"}, reg), tr, hook,
		lifecycle.WithAppState(func() lifecycle.AppState {
			return lifecycle.AppState{Foreground: true, Active: true}
		}),
	)

	start := time.Now()
	for i := range 3 {
		require.NoError(t, router.Received(context.Background(), message(i+1, "Hello", "")))
	}
	require.NoError(t, router.Tapped(context.Background(), lifecycle.Interaction{NotificationID: 1}))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.NoError(t, router.Close(context.Background()))
}

func TestRouter_Handoff(t *testing.T) {
	t.Parallel()

	t.Run("delivers once the bridge is ready", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{HandoffMaxAttempts: 200})
		f.bridge.SetReady(false)
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Tapped(context.Background(), lifecycle.Interaction{NotificationID: 3}))
		assertNoEvent(t, sub)

		f.bridge.SetReady(true)
		ev := receiveOne(t, sub)
		assert.Equal(t, bridge.KindTapped, ev.Kind)
		assert.Equal(t, 3, ev.NotificationID)
	})

	t.Run("drops after max attempts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{HandoffInterval: time.Millisecond, HandoffMaxAttempts: 3})
		f.bridge.SetReady(false)
		sub := f.bridge.Subscribe(context.Background())

		require.NoError(t, f.router.Tapped(context.Background(), lifecycle.Interaction{NotificationID: 3}))
		require.NoError(t, f.router.Close(context.Background()))

		f.bridge.SetReady(true)
		assertNoEvent(t, sub)
	})

	t.Run("close with expired context drops pending", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{HandoffInterval: time.Hour})
		f.bridge.SetReady(false)

		require.NoError(t, f.router.Tapped(context.Background(), lifecycle.Interaction{NotificationID: 3}))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, f.router.Close(ctx), context.DeadlineExceeded)
	})
}

func TestRouter_Errors(t *testing.T) {
	t.Parallel()

	newRouter := func(tr lifecycle.Tray, br bridge.Bridge) *lifecycle.Router {
		return lifecycle.NewRouter(lifecycle.Config{}, presenter.NewDecider(presenter.Config{}, registry.New()), tr, br)
	}

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		r := newRouter(&mockTray{}, bridge.NewMemoryBridge())
		assert.ErrorIs(t, r.Handle(context.Background(), nil), lifecycle.ErrUnknownEvent)
	})

	t.Run("tray failure", func(t *testing.T) {
		t.Parallel()
		tr := &mockTray{}
		tr.On("Active", mock.Anything).Return(nil, errors.New("binder died")).Once()
		r := newRouter(tr, bridge.NewMemoryBridge())

		err := r.Received(context.Background(), message(1, "A", ""))
		assert.ErrorIs(t, err, lifecycle.ErrTrayFailure)
		tr.AssertExpectations(t)
	})

	t.Run("bridge failure", func(t *testing.T) {
		t.Parallel()
		tr := &mockTray{}
		tr.On("Cancel", mock.Anything, mock.Anything).Return(nil)
		br := bridge.NewMemoryBridge(bridge.WithReady(true))
		require.NoError(t, br.Close())
		r := newRouter(tr, br)

		err := r.Tapped(context.Background(), lifecycle.Interaction{NotificationID: 1})
		assert.ErrorIs(t, err, lifecycle.ErrBridgeFailure)
		assert.ErrorIs(t, err, bridge.ErrBridgeClosed)
	})
}

// staleTray reports the tray as it was before any concurrent render landed,
// the window two racing messages share between reading and clearing the tray.
type staleTray struct {
	*countingTray
	snapshot []int
}

func (t *staleTray) Active(context.Context) ([]int, error) {
	return t.snapshot, nil
}

func TestRouter_ConcurrentReceiveRace(t *testing.T) {
	t.Parallel()

	t.Run("both messages see an empty tray", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		tr := &staleTray{countingTray: &countingTray{MemoryTray: tray.New()}}
		router := lifecycle.NewRouter(lifecycle.Config{}, presenter.NewDecider(presenter.Config{}, reg), tr,
			bridge.NewMemoryBridge(bridge.WithReady(true)))
		ctx := context.Background()

		require.NoError(t, router.Received(ctx, message(1, "A", "a")))
		require.NoError(t, router.Received(ctx, message(2, "B", "b")))

		// Neither render saw the other, so both show standalone and no
		// summary is built even though the registry holds both.
		ids, _ := tr.MemoryTray.Active(ctx)
		assert.ElementsMatch(t, []int{1, 2}, ids)
		assert.Equal(t, 2, reg.Summary().Count())
		assert.Zero(t, tr.cancelAlls.Load())
	})

	t.Run("both messages clear the tray", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		tr := &staleTray{countingTray: &countingTray{MemoryTray: tray.New()}, snapshot: []int{1}}
		router := lifecycle.NewRouter(lifecycle.Config{}, presenter.NewDecider(presenter.Config{}, reg), tr,
			bridge.NewMemoryBridge(bridge.WithReady(true)))
		ctx := context.Background()

		require.NoError(t, router.Received(ctx, message(2, "B", "b")))
		require.NoError(t, router.Received(ctx, message(3, "C", "c")))

		assert.Equal(t, int32(2), tr.cancelAlls.Load())
		ids, _ := tr.MemoryTray.Active(ctx)
		assert.Equal(t, []int{groupID}, ids)
	})

	t.Run("registry stays consistent under load", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, lifecycle.Config{})
		ctx := context.Background()

		const n = 32
		var wg sync.WaitGroup
		for i := 1; i <= n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, f.router.Received(ctx, message(i, "m"+strconv.Itoa(i), "item-"+strconv.Itoa(i))))
			}()
		}
		wg.Wait()

		assert.Equal(t, n, f.registry.Summary().Count())
		assert.Equal(t, n, f.registry.LinkedIDCount())
		assert.NotEmpty(t, f.activeIDs(t))
	})
}
