package lifecycle

import "errors"

var (
	ErrUnknownEvent  = errors.New("lifecycle: unknown event")
	ErrTrayFailure   = errors.New("lifecycle: tray operation failed")
	ErrBridgeFailure = errors.New("lifecycle: bridge delivery failed")
)
