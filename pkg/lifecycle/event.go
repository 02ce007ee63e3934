package lifecycle

import "github.com/dmitrymomot/pushkit/pkg/payload"

// Event is one of Received, Tapped or Dismissed.
type Event interface {
	eventType() string
}

// Received is an inbound push message.
type Received struct {
	Bag payload.Bag
	// From is the sender id or a "/topics/<name>" source.
	From string
}

// Interaction is a user action on a displayed notification.
type Interaction struct {
	NotificationID int
	// Payload holds the extras the notification was rendered with.
	Payload payload.Record
	// ActionCallback names the action button pressed, if any.
	ActionCallback string
	// InlineReply is the text typed into an inline reply action.
	InlineReply string
}

// Tapped is a tap on a notification or one of its actions.
type Tapped struct {
	Interaction
}

// Dismissed is a swipe-away of a notification.
type Dismissed struct {
	Interaction
}

func (Received) eventType() string  { return "received" }
func (Tapped) eventType() string    { return "tapped" }
func (Dismissed) eventType() string { return "dismissed" }
