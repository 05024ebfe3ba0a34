package queue

import (
	"sync"

	"golang.org/x/time/rate"
)

// Config defines an optional rate limit for one worker type.
type Config struct {
	// Worker is the worker type name this config applies to.
	Worker string

	// RateLimit is the maximum sustained admissions per second for this
	// worker. Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the burst size for the token-bucket limiter. Defaults
	// to 1 if RateLimit is set but RateBurst is zero.
	RateBurst int
}

// Limiter holds one token-bucket rate limiter per worker type. It is
// safe for concurrent use. A worker with no configured limit always
// allows admission.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLimiter creates a Limiter with one entry per config passed, applied
// as SetConfig would. Add or replace workers later with SetConfig.
func NewLimiter(configs ...Config) *Limiter {
	l := &Limiter{limiters: make(map[string]*rate.Limiter, len(configs))}
	for _, cfg := range configs {
		l.SetConfig(cfg)
	}
	return l
}

// SetConfig installs or replaces the rate limit for a worker type.
func (l *Limiter) SetConfig(cfg Config) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cfg.RateLimit <= 0 {
		delete(l.limiters, cfg.Worker)
		return
	}

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	l.limiters[cfg.Worker] = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

// Allow reports whether a worker type has an available token right now.
// Workers with no configured limit always return true.
func (l *Limiter) Allow(worker string) bool {
	l.mu.Lock()
	lim := l.limiters[worker]
	l.mu.Unlock()

	if lim == nil {
		return true
	}
	return lim.Allow()
}
