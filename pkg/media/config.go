package media

import "time"

// Config bounds image downloads.
type Config struct {
	Timeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	MaxBytes  int64         `env:"MAX_BYTES" envDefault:"5242880"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"64"`
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 5 << 20
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 64
	}
	return c
}
