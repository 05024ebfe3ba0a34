package retry

import "time"

// Override is one layer of the three-layer merge: a partial set of
// Config fields. Unset fields are nil and leave the previous layer's
// value untouched. Construct one directly, or use the shorthand
// constructors below (NoRetry, Immediately, ImmediatelyN, Static,
// StaticN) that mirror the shorthand forms spelled out alongside the
// retry config.
type Override struct {
	MaxAttempts *int
	Delay       *time.Duration
	Exponent    *int
	MaxDelay    *time.Duration
}

// NoRetry returns an override that disables retries entirely
// (MaxAttempts = 0).
func NoRetry() *Override {
	return &Override{MaxAttempts: intPtr(0)}
}

// Immediately returns an override that retries with no delay.
func Immediately() *Override {
	return &Override{Delay: durPtr(0)}
}

// ImmediatelyN returns an override that retries immediately, up to n times.
func ImmediatelyN(n int) *Override {
	return &Override{Delay: durPtr(0), MaxAttempts: intPtr(n)}
}

// Static returns an override for a constant delay between retries
// (exponent 0, no cap needed since the delay never grows).
func Static(d time.Duration) *Override {
	return &Override{Exponent: intPtr(0), Delay: durPtr(d), MaxDelay: durPtr(Unbounded)}
}

// StaticN is Static with a bounded number of retries.
func StaticN(d time.Duration, n int) *Override {
	o := Static(d)
	o.MaxAttempts = intPtr(n)
	return o
}

func intPtr(n int) *int                     { return &n }
func durPtr(d time.Duration) *time.Duration { return &d }

// applyTo merges the set fields of o onto cfg, validating as it goes.
// Unset (nil) fields leave cfg unchanged.
func (o *Override) applyTo(cfg *Config) error {
	if o == nil {
		return nil
	}

	if o.MaxAttempts != nil {
		if *o.MaxAttempts != Unbounded && *o.MaxAttempts < 0 {
			return &ConfigError{Field: "max_attempts", Reason: "must be non-negative or unbounded"}
		}
		cfg.MaxAttempts = *o.MaxAttempts
	}

	if o.Delay != nil {
		if *o.Delay < 0 {
			return &ConfigError{Field: "delay", Reason: "must be non-negative"}
		}
		cfg.Delay = *o.Delay
	}

	if o.Exponent != nil {
		if *o.Exponent < 0 {
			return &ConfigError{Field: "exponent", Reason: "must be non-negative"}
		}
		cfg.Exponent = *o.Exponent
	}

	if o.MaxDelay != nil {
		if *o.MaxDelay != time.Duration(Unbounded) && *o.MaxDelay < 0 {
			return &ConfigError{Field: "max_delay", Reason: "must be non-negative or unbounded"}
		}
		cfg.MaxDelay = *o.MaxDelay
	}

	return nil
}
