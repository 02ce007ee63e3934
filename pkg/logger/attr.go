package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// NotificationID records the tray notification id under "notification_id".
func NotificationID(id int) slog.Attr {
	return slog.Int("notification_id", id)
}

// LinkedItemID records the application item linked to a notification.
// An empty id yields an empty Attr.
func LinkedItemID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("linked_item_id", id)
}

// Key records a payload key under "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Style records the presentation style under "style".
func Style(style string) slog.Attr {
	return slog.String("style", style)
}

// EventType records the lifecycle event type under "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Attempt records a 1-based attempt number under "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// URL records a remote resource location under "url".
func URL(u string) slog.Attr {
	return slog.String("url", u)
}
