package presenter

import "github.com/dmitrymomot/pushkit/pkg/payload"

// Style is the expanded layout of a notification.
type Style string

const (
	StyleText    Style = payload.StyleText
	StyleInbox   Style = payload.StyleInbox
	StylePicture Style = payload.StylePicture
)

// CategoryAlarm marks critical notifications.
const CategoryAlarm = "alarm"

// Icon is the small status-bar icon. An empty Name means the application icon.
type Icon struct {
	Name  string
	Color string
}

// LargeIcon is the image shown next to the text.
type LargeIcon struct {
	Source string
	Remote bool
	Circle bool
}

// LED is the notification light in ARGB with on/off durations.
type LED struct {
	ARGB  [4]int
	OnMs  int
	OffMs int
}

// Action is a notification button.
type Action struct {
	Icon             string `json:"icon,omitempty"`
	Title            string `json:"title"`
	Callback         string `json:"callback"`
	Foreground       bool   `json:"foreground"`
	Inline           bool   `json:"inline"`
	InlineReplyLabel string `json:"inlineReplyLabel,omitempty"`
}

// RenderRequest is everything a tray implementation needs to show a
// notification.
type RenderRequest struct {
	ID          int
	Title       string
	Body        string
	Style       Style
	Lines       []string
	SummaryText string
	Picture     string

	Icon      Icon
	LargeIcon *LargeIcon
	ChannelID string
	Category  string

	// Priority is -2..2; Visibility is -1..1 or nil for the platform default.
	Priority   int
	Visibility *int
	LED        *LED
	Vibration  []int64
	Sound      Sound
	// Number is the count shown on the notification, nil when absent.
	Number  *int
	Ongoing bool
	Actions []Action

	GroupKey      string
	GroupSummary  bool
	Silent        bool
	OnlyAlertOnce bool

	// Extras travel with the notification and come back on tap or dismiss.
	Extras payload.Record
}

// Bodies returns the message bodies the request displays: the lines of an
// inbox or group summary, otherwise the body.
func (r RenderRequest) Bodies() []string {
	if len(r.Lines) > 0 {
		out := make([]string, len(r.Lines))
		copy(out, r.Lines)
		return out
	}
	if r.Body == "" {
		return nil
	}
	return []string{r.Body}
}
