// Package event provides the in-process publish/subscribe bus jobs are
// reported through. It fans a job's single terminal outcome out to every
// current subscriber without letting a slow listener block the
// scheduler or other listeners.
package event

import "github.com/FelixKiunke/joq/job"

// Kind identifies why a job reached a terminal state.
type Kind int

const (
	// Finished means the worker invocation returned nil.
	Finished Kind = iota
	// Failed means every retry attempt was exhausted.
	Failed
	// Dropped means an attempt of the job was suppressed instead of run,
	// because a duplicate was already pending, delayed, or running. On a
	// retry, earlier attempts of the job may already have run.
	Dropped
)

func (k Kind) String() string {
	switch k {
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event is published exactly once per job, at the moment it reaches a
// terminal state. Err is set only for Failed.
type Event struct {
	Kind Kind
	Job  *job.Job
	Err  error
}

// Listener receives published events. It must not block for long: the
// bus delivers to each listener on its own goroutine reading a bounded
// buffer, but a listener that never drains its buffer will start having
// events dropped for it.
type Listener func(Event)
