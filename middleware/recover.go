package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/FelixKiunke/joq/job"
)

// Recover returns middleware that recovers from panics in the handler chain.
// Panics are converted to errors and logged with a stack trace.
//
// workerexec.Run already recovers a panic from inside the worker body
// itself, so in the default wiring this middleware only ever sees a
// panic raised by another middleware in the chain. It stays in the
// chain for the same reason the teacher keeps it: defense in depth
// costs nothing on the happy path.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("job handler panicked",
					slog.String("worker", j.Worker),
					slog.String("job_id", j.ID),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in worker %s: %v", j.Worker, r)
			}
		}()
		return next(ctx)
	}
}
