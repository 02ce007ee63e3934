package lifecycle

import "time"

// Config controls routing policy.
type Config struct {
	// SenderID is the only sender, besides "/topics/" sources, whose
	// messages are handled. Empty accepts every sender.
	SenderID string `env:"SENDER_ID"`
	// ForceShow renders notifications even while the app is in the foreground.
	ForceShow bool `env:"FORCE_SHOW" envDefault:"false"`
	// ClearBadge resets the launcher badge whenever a message arrives.
	ClearBadge         bool          `env:"CLEAR_BADGE" envDefault:"false"`
	HandoffInterval    time.Duration `env:"HANDOFF_INTERVAL" envDefault:"200ms"`
	HandoffMaxAttempts int           `env:"HANDOFF_MAX_ATTEMPTS" envDefault:"25"`
}

func (c Config) withDefaults() Config {
	if c.HandoffInterval <= 0 {
		c.HandoffInterval = 200 * time.Millisecond
	}
	if c.HandoffMaxAttempts <= 0 {
		c.HandoffMaxAttempts = 25
	}
	return c
}
