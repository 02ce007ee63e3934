package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushkit/pkg/api"
	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/presenter"
	"github.com/dmitrymomot/pushkit/pkg/registry"
	"github.com/dmitrymomot/pushkit/pkg/tray"
)

type harness struct {
	server   *httptest.Server
	tray     *tray.MemoryTray
	registry *registry.Registry
	state    *api.StateStore
}

func newHarness(t *testing.T, cfgs ...lifecycle.Config) *harness {
	t.Helper()
	var cfg lifecycle.Config
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	reg := registry.New()
	decider := presenter.NewDecider(presenter.Config{AppName: "Acme"}, reg)
	tr := tray.New()
	br := bridge.NewMemoryBridge(bridge.WithReady(true))
	state := api.NewStateStore(lifecycle.AppState{Active: true})
	router := lifecycle.NewRouter(cfg, decider, tr, br,
		lifecycle.WithEffects(tr),
		lifecycle.WithAppState(state.Func()),
	)
	srv := httptest.NewServer(api.New(router, tr, state, api.WithEventStream(br)).Routes())
	t.Cleanup(func() {
		srv.Close()
		_ = router.Close(context.Background())
		_ = br.Close()
	})
	return &harness{server: srv, tray: tr, registry: reg, state: state}
}

func (h *harness) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, h.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var env struct {
		Data  T                `json:"data"`
		Error *api.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

// subscribe opens the event stream and returns a reader of event kinds.
func (h *harness) subscribe(t *testing.T) <-chan string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.server.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	names := make(chan string, 8)
	go func() {
		defer close(names)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			raw, ok := strings.CutPrefix(scanner.Text(), "data: signals ")
			if !ok {
				continue
			}
			var signals struct {
				Event bridge.Event `json:"pushEvent"`
			}
			if err := json.Unmarshal([]byte(raw), &signals); err != nil {
				continue
			}
			names <- string(signals.Event.Kind)
		}
	}()
	t.Cleanup(func() {
		cancel()
		_ = resp.Body.Close()
	})
	return names
}

func nextEvent(t *testing.T, names <-chan string) string {
	t.Helper()
	select {
	case name := <-names:
		return name
	case <-time.After(2 * time.Second):
		t.Fatal("no event streamed")
		return ""
	}
}

func TestPush(t *testing.T) {
	t.Parallel()

	t.Run("shows notification", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		resp := h.do(t, http.MethodPost, "/push", `{"title":"Hi","message":"<b>There</b>","notId":7}`)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.NotEmpty(t, body["eventId"])
		assert.Equal(t, body["eventId"], resp.Header.Get(api.EventIDHeader))

		resp = h.do(t, http.MethodGet, "/tray", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		shown := decode[[]tray.Notification](t, resp)
		require.Len(t, shown, 1)
		assert.Equal(t, 7, shown[0].Request.ID)
		assert.Equal(t, "There", shown[0].Text)
	})

	t.Run("keeps client event id", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		req, err := http.NewRequest(http.MethodPost, h.server.URL+"/push", strings.NewReader(`{"message":"x"}`))
		require.NoError(t, err)
		req.Header.Set(api.EventIDHeader, "evt-123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "evt-123", resp.Header.Get(api.EventIDHeader))
	})

	t.Run("filters senders", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, lifecycle.Config{SenderID: "1234"})

		resp := h.do(t, http.MethodPost, "/push?from=9999", `{"message":"spam","notId":1}`)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Empty(t, h.tray.List())

		resp = h.do(t, http.MethodPost, "/push?from=/topics/news", `{"message":"news","notId":2}`)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		_, ok := h.tray.Get(2)
		assert.True(t, ok)

		resp = h.do(t, http.MethodPost, "/push", `{"message":"direct","notId":3}`)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, []string{"news", "direct"}, h.registry.Summary().Bodies())
	})

	t.Run("rejects bad bodies", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		resp := h.do(t, http.MethodPost, "/push", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "bad_request", errorCode(t, resp))

		resp = h.do(t, http.MethodPost, "/push", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		resp = h.do(t, http.MethodPost, "/push", ``)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestTap(t *testing.T) {
	t.Parallel()

	t.Run("group tap clears everything", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		events := h.subscribe(t)

		for i, linked := range []string{"a", "b", "c"} {
			body := `{"message":"m` + linked + `","notId":` + string(rune('1'+i)) + `,"linkedItemId":"` + linked + `"}`
			require.Equal(t, http.StatusAccepted, h.do(t, http.MethodPost, "/push", body).StatusCode)
		}
		ids, err := h.tray.Active(context.Background())
		require.NoError(t, err)
		require.Equal(t, []int{presenter.DefaultGroupSummaryID}, ids)

		resp := h.do(t, http.MethodPost, "/notifications/999999/tap", "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		assert.Equal(t, string(bridge.KindTapped), nextEvent(t, events))
		assert.Empty(t, h.tray.List())
		assert.Zero(t, h.registry.LinkedIDCount())
	})

	t.Run("action with inline reply", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		events := h.subscribe(t)

		require.Equal(t, http.StatusAccepted, h.do(t, http.MethodPost, "/push", `{"message":"ping","notId":4}`).StatusCode)
		resp := h.do(t, http.MethodPost, "/notifications/4/tap", `{"actionCallback":"reply","inlineReply":"pong"}`)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, string(bridge.KindTapped), nextEvent(t, events))
	})

	t.Run("unknown and invalid ids", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		resp := h.do(t, http.MethodPost, "/notifications/12/tap", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", errorCode(t, resp))

		resp = h.do(t, http.MethodPost, "/notifications/abc/tap", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_notification_id", errorCode(t, resp))
	})
}

func TestDismiss(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	require.Equal(t, http.StatusAccepted, h.do(t, http.MethodPost, "/push", `{"message":"bye","notId":9}`).StatusCode)
	resp := h.do(t, http.MethodPost, "/notifications/9/dismiss", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, h.tray.List())
	assert.Empty(t, h.registry.Messages(9))
}

func TestAppState(t *testing.T) {
	t.Parallel()

	t.Run("foreground delivers to the app", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		events := h.subscribe(t)

		resp := h.do(t, http.MethodPut, "/app/state", `{"foreground":true,"active":true}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = h.do(t, http.MethodGet, "/app/state", "")
		st := decode[api.StateRequest](t, resp)
		assert.True(t, st.Foreground)

		require.Equal(t, http.StatusAccepted, h.do(t, http.MethodPost, "/push", `{"message":"live"}`).StatusCode)
		assert.Equal(t, string(bridge.KindReceived), nextEvent(t, events))
		assert.Empty(t, h.tray.List())
	})

	t.Run("readiness follows active", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/ready", "").StatusCode)
		h.state.Set(lifecycle.AppState{})
		assert.Equal(t, http.StatusServiceUnavailable, h.do(t, http.MethodGet, "/health/ready", "").StatusCode)
		assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/live", "").StatusCode)
	})
}
