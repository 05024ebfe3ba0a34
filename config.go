package joq

import "time"

// Config holds the Queue's process-wide settings. Neither field has a
// per-worker or per-job counterpart.
type Config struct {
	// RateLimitRetry is how soon a capacity-available-but-rate-limited
	// admission is retried. Zero keeps the scheduler's own default.
	RateLimitRetry time.Duration

	// DeadLetterCapacity enables a runner.DeadLetterSink with the given
	// ring buffer size when positive. Zero (the default) leaves
	// dead-lettering disabled.
	DeadLetterCapacity int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RateLimitRetry: 50 * time.Millisecond,
	}
}
