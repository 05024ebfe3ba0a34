// Package runner implements the retry loop around a single submission.
//
// A [Coordinator] ties together a worker registry, a scheduler, and an
// event bus: Submit spawns a goroutine that calls [scheduler.Scheduler.Run]
// repeatedly, computing each retry's delay from the resolved [retry.Config],
// until the submission reaches a terminal outcome, then publishes exactly
// one terminal [event.Event]. All retry bookkeeping for one submission lives
// in that goroutine's stack; nothing is shared across submissions.
package runner
