package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: data})
}

// writeError maps err to a status. Router collaborator failures become 502.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	httpErr := ErrInternal
	var target HTTPError
	switch {
	case errors.As(err, &target):
		httpErr = target
	case errors.Is(err, lifecycle.ErrTrayFailure), errors.Is(err, lifecycle.ErrBridgeFailure):
		httpErr = ErrBadGateway
	}

	level := slog.LevelWarn
	if httpErr.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.LogAttrs(r.Context(), level, "request failed",
		logger.Component("api"),
		slog.String("path", r.URL.Path),
		slog.Int("status", httpErr.Code),
		logger.Error(err),
	)

	detail := &ErrorDetail{Code: httpErr.Key}
	if err.Error() != httpErr.Key {
		detail.Message = err.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(Envelope{Error: detail})
}
