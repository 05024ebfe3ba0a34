// Package retry implements the three-layer retry policy: a pure value
// type plus a merge function that resolves a global, a per-worker, and a
// per-job override into one concrete Config, and the functions that turn
// a Config into retry decisions (should_retry, delay_for).
//
// Resolution happens once, at submission time, so a submission's retry
// behaviour is fixed for its lifetime even if the global or worker-level
// settings change afterward.
package retry

import (
	"fmt"
	"math"
	"time"
)

// Unbounded is the sentinel value for MaxAttempts and MaxDelay meaning
// "no limit". It is also used inside Override to request that a bounded
// layer be widened back to unbounded.
const Unbounded = -1

// Config is the resolved, fully-specified retry policy for one submission.
type Config struct {
	// MaxAttempts is the number of retries allowed after the initial
	// attempt, or Unbounded. Non-negative when bounded.
	MaxAttempts int

	// Delay is the base delay applied before exponentiation.
	Delay time.Duration

	// Exponent controls how fast the delay grows with the attempt number.
	// Zero yields a constant delay.
	Exponent int

	// MaxDelay caps the computed delay, or Unbounded for no cap.
	MaxDelay time.Duration
}

// Default returns the documented default policy: exponent 4, 250ms base
// delay, a 1 hour cap, and 5 retries.
func Default() Config {
	return Config{
		MaxAttempts: 5,
		Delay:       250 * time.Millisecond,
		Exponent:    4,
		MaxDelay:    3_600_000 * time.Millisecond,
	}
}

// ShouldRetry reports whether a submission should be retried for the
// given attempt, where attempt is 1-based (the first retry is attempt 1).
func ShouldRetry(cfg Config, attempt int) bool {
	if cfg.MaxAttempts == Unbounded {
		return true
	}
	return attempt <= cfg.MaxAttempts
}

// DelayFor computes the backoff delay before the given retry attempt:
// floor(attempt^Exponent * Delay), clamped to MaxDelay when finite.
// A zero Delay always yields zero, regardless of exponent or attempt.
func DelayFor(cfg Config, attempt int) time.Duration {
	if cfg.Delay <= 0 {
		return 0
	}

	factor := math.Pow(float64(attempt), float64(cfg.Exponent))
	d := time.Duration(math.Floor(factor * float64(cfg.Delay)))

	if cfg.MaxDelay != Unbounded && d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}

// ConfigError reports a validation failure in a retry override. It is
// raised at submission/registration time, never at retry time, so bad
// configuration fails fast per the propagation policy for configuration
// errors.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("retry: invalid %s: %s", e.Field, e.Reason)
}

// Resolve merges the global, worker-level, and job-level overrides onto
// the documented defaults, in that order. Each override may be nil; a nil
// override (or an override whose fields are all unset) leaves the prior
// layer untouched — overrides never need to restate a field they don't
// want to change.
func Resolve(global, workerOverride, jobOverride *Override) (Config, error) {
	cfg := Default()

	for _, layer := range []*Override{global, workerOverride, jobOverride} {
		if layer == nil {
			continue
		}
		if err := layer.applyTo(&cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}
