// Package middleware provides composable middleware around a single job
// execution attempt. Middleware wraps the call synchronously and can
// observe or modify it (recover from panics, add tracing, record
// metrics, log) without the scheduler or workerexec needing to know
// any of that happened.
package middleware

import (
	"context"

	"github.com/FelixKiunke/joq/job"
)

// Handler is the terminal function that executes job logic.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the job being executed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, j *job.Job, next Handler) error

// Chain composes multiple middleware into a single Middleware, applied
// outermost-first: the first entry in mws runs first and wraps
// everything after it.
//
// Example: Chain(logging, recover) executes as:
//
//	logging → recover → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		return wrap(mws, j, next)(ctx)
	}
}

// wrap builds the Handler for mws[0], closing over a Handler for the
// remaining chain that mws[0]'s next argument invokes.
func wrap(mws []Middleware, j *job.Job, terminal Handler) Handler {
	if len(mws) == 0 {
		return terminal
	}
	rest := wrap(mws[1:], j, terminal)
	return func(ctx context.Context) error {
		return mws[0](ctx, j, rest)
	}
}
