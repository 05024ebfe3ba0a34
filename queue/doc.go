// Package queue provides an optional per-worker token-bucket rate
// limiter that supplements the scheduler's concurrency cap with an
// independent requests-per-second axis.
//
// Rate limiting is not part of the admission algorithm itself: the
// scheduler owns concurrency and FIFO ordering. A [Limiter], when
// configured for a worker, is consulted by the scheduler immediately
// before a capacity-available admission of a new or newly due request —
// such a request may still wait for a token. A waiter drained from the
// pending FIFO when a running job completes is admitted without
// consulting the Limiter.
//
//	lim := queue.NewLimiter()
//	lim.SetConfig(queue.Config{Worker: "send-email", RateLimit: 10, RateBurst: 20})
package queue
