package api

import (
	"errors"
	"net/http"
)

// HTTPError is an error with a status code and a stable key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest        = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrInvalidID         = HTTPError{Code: http.StatusBadRequest, Key: "invalid_notification_id"}
	ErrNotFound          = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrUnprocessable     = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrBadGateway        = HTTPError{Code: http.StatusBadGateway, Key: "bad_gateway"}
	ErrStreamUnsupported = HTTPError{Code: http.StatusInternalServerError, Key: "streaming_unsupported"}
	ErrInternal          = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
)

// ErrNoStreamSource is returned by Events when the server has no memory bridge.
var ErrNoStreamSource = errors.New("api: no event stream source")
