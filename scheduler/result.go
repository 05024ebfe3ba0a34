package scheduler

import "github.com/FelixKiunke/joq/job"

// Status is the terminal shape of a Run call.
type Status int

const (
	// StatusSuccess means the job executed and its worker returned nil.
	StatusSuccess Status = iota
	// StatusFailure means the job executed and its worker returned an
	// error, possibly a recovered panic.
	StatusFailure
	// StatusDropped means the job never ran because it was suppressed
	// as a duplicate.
	StatusDropped
)

// Result is what Run returns once a submission reaches a terminal
// state for that one call (a single retry attempt, not the whole
// submission — retrying across attempts is runner's job).
type Result struct {
	Status Status
	Job    *job.Job
	// Err and Stack are set only when Status is StatusFailure.
	Err   error
	Stack string
}
