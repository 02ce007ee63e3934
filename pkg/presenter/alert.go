package presenter

import (
	"strings"

	"github.com/dmitrymomot/pushkit/pkg/payload"
)

// SoundKind tells how a sound is resolved.
type SoundKind int

const (
	SoundNone SoundKind = iota
	// SoundDefault is the system default notification sound, falling back
	// to the ringtone and then the alarm sound.
	SoundDefault
	// SoundResource is a sound bundled with the application.
	SoundResource
)

// SoundNameDefault selects the system default sound.
const SoundNameDefault = "default"

// Sound is the sound to play with a notification.
type Sound struct {
	Kind SoundKind
	Name string
}

// ParseSound resolves the sound field of a payload.
func ParseSound(name string) Sound {
	name = strings.TrimSpace(name)
	switch name {
	case "":
		return Sound{}
	case SoundNameDefault:
		return Sound{Kind: SoundDefault, Name: name}
	default:
		return Sound{Kind: SoundResource, Name: name}
	}
}

// Stream is the audio stream a sound plays on.
type Stream int

const (
	StreamNone Stream = iota
	StreamNotification
	StreamAlarm
)

func (s Stream) String() string {
	switch s {
	case StreamNotification:
		return "notification"
	case StreamAlarm:
		return "alarm"
	default:
		return "none"
	}
}

// Alert is the sound and vibration that accompany a received message.
type Alert struct {
	Sound  Sound
	Stream Stream
	// MaxVolume raises the stream to its maximum before playback.
	MaxVolume bool
	// BypassDND plays even in silent or do-not-disturb mode.
	BypassDND bool
	// RestoreRingerMode puts the previous ringer mode back after playback.
	RestoreRingerMode bool
	Vibration         []int64
}

// Audible reports whether the alert plays a sound.
func (a Alert) Audible() bool {
	return a.Stream != StreamNone && a.Sound.Kind != SoundNone
}

// Empty reports whether there is nothing to play or vibrate.
func (a Alert) Empty() bool {
	return !a.Audible() && len(a.Vibration) == 0
}

// Escalate builds the alert for rec. Critical messages play on the alarm
// stream at maximum volume regardless of the ringer mode; normal messages
// use the notification stream; any other class plays no sound.
func Escalate(rec payload.Record) Alert {
	alert := Alert{
		Sound:     ParseSound(rec.Get(payload.KeySound)),
		Vibration: ParseVibration(rec.Get(payload.KeyVibrationPattern)),
	}
	switch rec.Get(payload.KeyCoresType) {
	case payload.CoresTypeCritical:
		alert.Stream = StreamAlarm
		alert.MaxVolume = true
		alert.BypassDND = true
		alert.RestoreRingerMode = true
	case payload.CoresTypeNormal:
		alert.Stream = StreamNotification
	}
	return alert
}

// Critical reports whether rec is a critical alert.
func Critical(rec payload.Record) bool {
	return rec.Get(payload.KeyCoresType) == payload.CoresTypeCritical
}
