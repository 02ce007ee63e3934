package bridge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pushkit/pkg/payload"
)

// Kind is the type of a bridge event.
type Kind string

const (
	// KindReceived is a message delivered to the application as data.
	KindReceived Kind = "received"
	// KindTapped is a tap on a notification or one of its actions.
	KindTapped Kind = "tapped"
	// KindStartInBackground asks the platform to launch the application
	// without bringing it to the foreground.
	KindStartInBackground Kind = "start_in_background"
)

// Event is what the application receives.
type Event struct {
	ID             string         `json:"id"`
	Kind           Kind           `json:"kind"`
	NotificationID int            `json:"notificationId"`
	Foreground     bool           `json:"foreground"`
	Coldstart      bool           `json:"coldstart"`
	Tapped         bool           `json:"tapped"`
	Dismissed      bool           `json:"dismissed"`
	ActionCallback string         `json:"actionCallback,omitempty"`
	InlineReply    string         `json:"inlineReply,omitempty"`
	Payload        payload.Record `json:"payload"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// NewEvent returns an event with a fresh id and timestamp.
func NewEvent(kind Kind, rec payload.Record) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    rec,
		OccurredAt: time.Now().UTC(),
	}
}

// Record returns the payload merged with the event flags, the shape the
// application's notification handler expects.
func (e Event) Record() payload.Record {
	fields := []payload.Field{
		{Key: payload.KeyForeground, Value: e.Foreground},
		{Key: payload.KeyColdstart, Value: e.Coldstart},
		{Key: payload.KeyTapped, Value: e.Tapped},
		{Key: payload.KeyDismissed, Value: e.Dismissed},
	}
	if e.ActionCallback != "" {
		fields = append(fields, payload.Field{Key: payload.KeyActionCallback, Value: e.ActionCallback})
	}
	if e.InlineReply != "" {
		fields = append(fields, payload.Field{Key: payload.KeyInlineReply, Value: e.InlineReply})
	}
	return e.Payload.With(fields...)
}

// Bridge delivers events to the application.
type Bridge interface {
	// Ready reports whether the application can accept events.
	Ready() bool
	Deliver(ctx context.Context, ev Event) error
}
