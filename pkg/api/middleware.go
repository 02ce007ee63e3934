package api

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// EventIDHeader carries the event id of a request.
const EventIDHeader = "X-Event-ID"

var validEventID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// eventID attaches an event id to the request context and response.
// Client ids that are not short tokens are replaced.
func eventID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(EventIDHeader)
		if !validEventID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(EventIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithEventID(r.Context(), id)))
	})
}
