package bridge

import "errors"

var (
	ErrBridgeClosed     = errors.New("bridge: closed")
	ErrDeliveryFailed   = errors.New("bridge: delivery failed")
	ErrPermanentFailure = errors.New("bridge: permanent delivery failure")
	ErrTemporaryFailure = errors.New("bridge: temporary delivery failure")
	ErrInvalidURL       = errors.New("bridge: invalid endpoint URL")
	ErrQueueFull        = errors.New("bridge: delivery queue is full")
)
