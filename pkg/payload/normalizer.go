package payload

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer maps raw payload keys onto canonical keys.
type Normalizer struct {
	messageKey string
	titleKey   string
}

// NewNormalizer returns a Normalizer honoring the message and title keys of cfg.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{messageKey: cfg.MessageKey, titleKey: cfg.TitleKey}
}

// NormalizeKey returns the canonical key for raw. implied is non-nil when
// the alias carries an extra field: the Pinpoint image URL implies the
// picture style.
func (n *Normalizer) NormalizeKey(raw string) (key string, implied *Field) {
	switch raw {
	case aliasBody, aliasAlert, aliasMixpanelMessage, aliasGCMBody, aliasTwilioBody, aliasPinpointBody:
		return KeyMessage, nil
	case aliasTwilioTitle, aliasSubject:
		return KeyTitle, nil
	case aliasMessageCount, aliasBadge:
		return KeyCount, nil
	case aliasSoundName, aliasTwilioSound:
		return KeySound, nil
	case aliasPinpointImageURL:
		return KeyPicture, &Field{Key: KeyStyle, Value: StylePicture}
	}
	if n.messageKey != "" && raw == n.messageKey {
		return KeyMessage, nil
	}
	if n.titleKey != "" && raw == n.titleKey {
		return KeyTitle, nil
	}

	if rest, ok := stripPrefix(raw, prefixGCMNotification); ok {
		return rest, nil
	}
	if rest, ok := stripPrefix(raw, prefixGCMShort); ok {
		return rest, nil
	}
	if rest, ok := stripPrefix(raw, prefixUrbanAirship); ok {
		// cases.Caser is stateful, one per call.
		return cases.Lower(language.Und).String(rest), nil
	}
	if rest, ok := stripPrefix(raw, prefixPinpoint); ok {
		return rest, nil
	}
	return raw, nil
}

// IsMessageKey reports whether raw is one of the message-bearing aliases.
func (n *Normalizer) IsMessageKey(raw string) bool {
	key, _ := n.NormalizeKey(raw)
	return key == KeyMessage
}

// stripPrefix removes prefix and the dot after it. Keys equal to the bare
// prefix or ending right after the dot are left alone.
func stripPrefix(key, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(key, prefix+".")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
