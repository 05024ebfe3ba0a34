package joq

import (
	"context"
	"fmt"
	"time"

	"github.com/FelixKiunke/joq/id"
	"github.com/FelixKiunke/joq/job"
	"github.com/FelixKiunke/joq/retry"
)

// EnqueueOption configures one submission at Enqueue time.
type EnqueueOption func(*job.Job)

// WithDelay schedules the job to become eligible for admission no
// earlier than d from now.
func WithDelay(d time.Duration) EnqueueOption {
	return func(j *job.Job) {
		t := time.Now().Add(d)
		j.DelayUntil = &t
	}
}

// WithRunAt schedules the job to become eligible for admission no
// earlier than t.
func WithRunAt(t time.Time) EnqueueOption {
	return func(j *job.Job) { j.DelayUntil = &t }
}

// WithJobRetry overrides the retry policy for this submission alone,
// beneath the worker-level and global layers.
func WithJobRetry(o *retry.Override) EnqueueOption {
	return func(j *job.Job) { j.Retry = o }
}

// Enqueue submits args for execution under the named worker type and
// returns the Job record describing that submission. The three-layer
// retry policy (global, worker, and this call's WithJobRetry) is
// resolved synchronously, so an invalid override fails fast with a
// *retry.ConfigError here rather than surfacing later as a spurious
// Failed event. Beyond that check, the retry loop and terminal event
// publish happen asynchronously; Subscribe to learn the outcome.
func (q *Queue) Enqueue(ctx context.Context, workerName string, args any, opts ...EnqueueOption) (*job.Job, error) {
	if q.closed {
		return nil, ErrAlreadyClosed
	}
	w, ok := q.registry.Lookup(workerName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorker, workerName)
	}

	j := &job.Job{ID: id.NewJobID(), Worker: workerName, Args: args}
	for _, opt := range opts {
		opt(j)
	}

	if _, err := retry.Resolve(q.globalRetry, w.Retry, j.Retry); err != nil {
		return nil, err
	}

	q.runner.Submit(ctx, j)
	return j, nil
}

// Enqueue is the generic counterpart of Queue.Enqueue: it documents the
// payload type T at the call site instead of passing args as a bare
// any. T is not checked against the target worker's declared type until
// the worker actually runs — that check happens inside worker.Define's
// closed-over type assertion.
func Enqueue[T any](ctx context.Context, q *Queue, workerName string, args T, opts ...EnqueueOption) (*job.Job, error) {
	return q.Enqueue(ctx, workerName, args, opts...)
}
