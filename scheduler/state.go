package scheduler

import "github.com/FelixKiunke/joq/job"

// waiter is one caller queued in a worker's pending FIFO, awaiting a
// free concurrency slot.
type waiter struct {
	job   *job.Job
	reply chan signalKind
}

// workerState tracks admission bookkeeping for one worker type. It is
// touched only from the scheduler's run loop.
type workerState struct {
	running []*job.Job
	pending []*waiter
}

func (s *workerState) removeRunning(j *job.Job) bool {
	for i, r := range s.running {
		if r == j {
			s.running = append(s.running[:i], s.running[i+1:]...)
			return true
		}
	}
	return false
}

func (s *workerState) hasEqualForDedup(j *job.Job) bool {
	for _, r := range s.running {
		if job.EqualForDedup(r, j) {
			return true
		}
	}
	for _, w := range s.pending {
		if job.EqualForDedup(w.job, j) {
			return true
		}
	}
	return false
}
