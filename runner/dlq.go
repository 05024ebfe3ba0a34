package runner

import (
	"sync"
	"time"

	"github.com/FelixKiunke/joq/job"
)

// DeadLetterEntry records one submission that exhausted its retries.
type DeadLetterEntry struct {
	Job      *job.Job
	Err      error
	Stack    string
	FailedAt time.Time
}

// DefaultDeadLetterCapacity is the ring buffer size used when
// NewDeadLetterSink is called with a non-positive capacity.
const DefaultDeadLetterCapacity = 100

// DeadLetterSink is an optional, purely in-memory observer of the last N
// submissions that exhausted their retries. It holds no state beyond the
// process lifetime and exists only so an operator can inspect recent
// failures without standing up real persistence, which is out of scope
// for this core.
type DeadLetterSink struct {
	mu      sync.Mutex
	entries []DeadLetterEntry
	next    int
	full    bool
}

// NewDeadLetterSink creates a sink that retains the last capacity entries.
// A non-positive capacity falls back to DefaultDeadLetterCapacity.
func NewDeadLetterSink(capacity int) *DeadLetterSink {
	if capacity <= 0 {
		capacity = DefaultDeadLetterCapacity
	}
	return &DeadLetterSink{entries: make([]DeadLetterEntry, capacity)}
}

func (d *DeadLetterSink) record(e DeadLetterEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[d.next] = e
	d.next++
	if d.next == len(d.entries) {
		d.next = 0
		d.full = true
	}
}

// Entries returns a snapshot of the retained entries, oldest first.
func (d *DeadLetterSink) Entries() []DeadLetterEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.full {
		out := make([]DeadLetterEntry, d.next)
		copy(out, d.entries[:d.next])
		return out
	}

	out := make([]DeadLetterEntry, len(d.entries))
	n := copy(out, d.entries[d.next:])
	copy(out[n:], d.entries[:d.next])
	return out
}
