package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/pushkit/pkg/bridge"
	"github.com/dmitrymomot/pushkit/pkg/httpserver"
	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/logger"
	"github.com/dmitrymomot/pushkit/pkg/payload"
	"github.com/dmitrymomot/pushkit/pkg/tray"
)

// maxBodyBytes bounds push and interaction bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP surface of one router.
type Server struct {
	router *lifecycle.Router
	tray   *tray.MemoryTray
	stream *bridge.MemoryBridge
	state  *StateStore
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventStream enables GET /events on top of b.
func WithEventStream(b *bridge.MemoryBridge) Option {
	return func(s *Server) {
		s.stream = b
	}
}

// New returns a Server routing requests into router.
func New(router *lifecycle.Router, tr *tray.MemoryTray, state *StateStore, opts ...Option) *Server {
	s := &Server{router: router, tray: tr, state: state, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(eventID)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(s.logger, s.ready))

	r.Post("/push", s.push)
	r.Get("/tray", s.listTray)
	r.Route("/notifications/{id}", func(r chi.Router) {
		r.Post("/tap", s.tap)
		r.Post("/dismiss", s.dismiss)
	})
	r.Get("/app/state", s.getState)
	r.Put("/app/state", s.putState)
	r.Get("/events", s.events)
	return r
}

func (s *Server) ready(context.Context) error {
	if !s.state.Get().Active {
		return errors.New("application not active")
	}
	return nil
}

type pushResponse struct {
	EventID string `json:"eventId"`
}

func (s *Server) push(w http.ResponseWriter, r *http.Request) {
	var bag payload.Bag
	if err := decodeBody(r, &bag); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if len(bag) == 0 {
		writeError(w, r, s.logger, fmt.Errorf("%w: empty payload", ErrUnprocessable))
		return
	}
	ev := lifecycle.Received{Bag: bag, From: r.URL.Query().Get("from")}
	if ev.From == "" {
		ev.From = s.router.SenderID()
	}
	if err := s.router.Handle(r.Context(), ev); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	id, _ := logger.EventIDFromContext(r.Context())
	writeJSON(w, http.StatusAccepted, pushResponse{EventID: id})
}

// InteractionRequest is the body of tap and dismiss requests.
type InteractionRequest struct {
	ActionCallback string `json:"actionCallback,omitempty"`
	InlineReply    string `json:"inlineReply,omitempty"`
}

func (s *Server) tap(w http.ResponseWriter, r *http.Request) {
	in, err := s.interaction(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	// The body is optional for a plain tap.
	var req InteractionRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, s.logger, err)
		return
	}
	in.ActionCallback = req.ActionCallback
	in.InlineReply = req.InlineReply

	if err := s.router.Tapped(r.Context(), in); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) {
	in, err := s.interaction(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	// A swipe removes the notification before the platform reports it.
	if err := s.tray.Cancel(r.Context(), in.NotificationID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.router.Dismissed(r.Context(), in); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// interaction resolves the {id} path parameter against the tray.
func (s *Server) interaction(r *http.Request) (lifecycle.Interaction, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return lifecycle.Interaction{}, ErrInvalidID
	}
	n, ok := s.tray.Get(id)
	if !ok {
		return lifecycle.Interaction{}, fmt.Errorf("%w: notification %d is not shown", ErrNotFound, id)
	}
	return lifecycle.Interaction{NotificationID: id, Payload: n.Request.Extras}, nil
}

func (s *Server) listTray(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tray.List())
}

// StateRequest is the body of PUT /app/state.
type StateRequest struct {
	Foreground bool `json:"foreground"`
	Active     bool `json:"active"`
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st := s.state.Get()
	writeJSON(w, http.StatusOK, StateRequest{Foreground: st.Foreground, Active: st.Active})
}

func (s *Server) putState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.state.Set(lifecycle.AppState{Foreground: req.Foreground, Active: req.Active})
	if s.stream != nil {
		s.stream.SetReady(req.Active)
	}
	s.logger.LogAttrs(r.Context(), slog.LevelInfo, "app state changed",
		logger.Component("api"),
		slog.Bool("foreground", req.Foreground),
		slog.Bool("active", req.Active),
	)
	writeJSON(w, http.StatusOK, req)
}

// eventSignal is the signal name each streamed bridge event is patched into.
const eventSignal = "pushEvent"

// events streams bridge events as datastar signal patches until the client
// goes away or the bridge closes.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	if s.stream == nil {
		writeError(w, r, s.logger, fmt.Errorf("%w: %w", ErrNotFound, ErrNoStreamSource))
		return
	}
	if _, ok := w.(http.Flusher); !ok {
		writeError(w, r, s.logger, ErrStreamUnsupported)
		return
	}

	sub := s.stream.Subscribe(r.Context())
	defer sub.Close()

	sse := datastar.NewSSE(w, r)
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(map[string]bridge.Event{eventSignal: ev})
			if err != nil {
				s.logger.LogAttrs(r.Context(), slog.LevelError, "failed to encode event",
					logger.Component("api"),
					logger.Error(err),
				)
				continue
			}
			if err := sse.PatchSignals(data); err != nil {
				s.logger.LogAttrs(r.Context(), slog.LevelDebug, "event stream closed",
					logger.Component("api"),
					logger.Error(err),
				)
				return
			}
		}
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
