// Package job defines the Job value type: one submission of work bound to
// a worker type, plus the equal-for-dedup comparison used by duplicate
// suppression.
package job

import (
	"reflect"
	"time"

	"github.com/FelixKiunke/joq/retry"
)

// Job is an immutable record of one submission. Two Jobs compare equal
// for deduplication purposes when their Worker and Args match; ID and
// timing are ignored for that comparison.
type Job struct {
	// ID is an opaque, short, unique-per-submission identifier.
	ID string

	// Worker names the worker type this job runs under.
	Worker string

	// Args is the opaque payload passed verbatim to the worker's Invoke.
	Args any

	// Retry is an optional per-job override of the retry policy.
	Retry *retry.Override

	// DelayUntil is an optional absolute deadline. When nil the job is
	// eligible for admission immediately. Times are compared using Go's
	// monotonic clock reading (time.Time.Before/After), never wall time.
	DelayUntil *time.Time
}

// EqualForDedup reports whether a and b are duplicates of each other:
// same worker, structurally equal args. ID and timing are ignored.
func EqualForDedup(a, b *Job) bool {
	if a.Worker != b.Worker {
		return false
	}
	return reflect.DeepEqual(a.Args, b.Args)
}
