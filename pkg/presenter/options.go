package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pushkit/pkg/payload"
)

// DefaultInlineReplyLabel is the hint shown in an inline reply field.
const DefaultInlineReplyLabel = "Enter your reply here"

var bracketStripper = strings.NewReplacer("[", "", "]", "")

// ParseVibration parses "[100, 200, 300]" into a pattern in milliseconds.
// Tokens that are not integers become 0. A blank pattern yields nil.
func ParseVibration(s string) []int64 {
	items := numericList(s)
	if items == nil {
		return nil
	}
	out := make([]int64, len(items))
	for i, item := range items {
		n, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

// ParseLED parses "[a, r, g, b]" into an LED that blinks 500ms on and off.
func ParseLED(s string) (*LED, error) {
	items := numericList(s)
	if len(items) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLED, len(items))
	}
	led := &LED{OnMs: 500, OffMs: 500}
	for i, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			n = 0
		}
		led.ARGB[i] = n
	}
	return led, nil
}

func numericList(s string) []string {
	items := strings.Split(bracketStripper.Replace(s), ",")
	if len(items) == 1 && strings.TrimSpace(items[0]) == "" {
		return nil
	}
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

// ParsePriority validates a priority in -2..2.
func ParsePriority(s string) (int, error) {
	return parseRange(s, -2, 2, ErrPriorityRange)
}

// ParseVisibility validates a lock-screen visibility in -1..1.
func ParseVisibility(s string) (int, error) {
	return parseRange(s, -1, 1, ErrVisibilityRange)
}

func parseRange(s string, lo, hi int, rangeErr error) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Join(ErrNotANumber, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", rangeErr, n, lo, hi)
	}
	return n, nil
}

// ParseActions decodes the actions JSON array. Entries that are not objects
// or lack a title or callback are skipped.
func ParseActions(s string, inlineLabel string) ([]Action, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, errors.Join(ErrInvalidActions, err)
	}
	if inlineLabel == "" {
		inlineLabel = DefaultInlineReplyLabel
	}

	actions := make([]Action, 0, len(items))
	for _, item := range items {
		a := Action{Foreground: true}
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		if a.Title == "" || a.Callback == "" {
			continue
		}
		if a.Inline && a.InlineReplyLabel == "" {
			a.InlineReplyLabel = inlineLabel
		}
		actions = append(actions, a)
	}
	return actions, nil
}

var iconColor = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ParseIconColor validates a #RRGGBB or #AARRGGBB colour.
func ParseIconColor(s string) (string, error) {
	if !iconColor.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIconColor, s)
	}
	return s, nil
}

// Badge returns the badge count carried by rec. ok is false when the record
// has no valid count.
func Badge(rec payload.Record) (count int, ok bool) {
	n, ok := rec.Int(payload.KeyCount)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// NotificationID returns the tray id of rec, 0 when absent.
func NotificationID(rec payload.Record) int {
	if n, ok := rec.Int(payload.KeyNotificationID); ok {
		return n
	}
	if n, ok := rec.Int(payload.KeyLegacyNotificationID); ok {
		return n
	}
	return 0
}

// LinkedItemID returns the application item linked to rec. The legacy
// coresPayload JSON is consulted when linkedItemId is absent.
func LinkedItemID(rec payload.Record) string {
	if id := rec.Get(payload.KeyLinkedItemID); id != "" {
		return id
	}
	raw := rec.Get(payload.KeyCoresPayload)
	if raw == "" {
		return ""
	}
	parsed := payload.Classify(raw)
	if parsed.Kind != payload.KindObject {
		return ""
	}
	switch v := parsed.Object["notification_id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}
