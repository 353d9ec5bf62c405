package bootwait

import "time"

// Config holds the wait parameters.
type Config struct {
	Probe        Probe
	Timeout      time.Duration
	PollInterval time.Duration
	OnProgress   func(Progress)
}

func defaultConfig() Config {
	return Config{
		Probe:        RP2040Probe(),
		Timeout:      30 * time.Second,
		PollInterval: 500 * time.Millisecond,
	}
}

// Option is a functional option for Wait.
type Option func(*Config)

// WithProbe replaces the platform probe.
func WithProbe(probe Probe) Option {
	return func(c *Config) {
		c.Probe = probe
	}
}

// WithTimeout bounds the total wait.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithPollInterval sets the delay between probe attempts.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// WithProgress registers a per-attempt progress callback. Implementations
// should return quickly.
func WithProgress(fn func(Progress)) Option {
	return func(c *Config) {
		c.OnProgress = fn
	}
}
