package workerexec

import (
	"context"
	"runtime/debug"

	"github.com/FelixKiunke/joq/worker"
)

// Run invokes w against args in a child goroutine and waits for it to
// finish, converting a clean return, an error return, or a panic into
// an Outcome. A panic is recovered and reported as a [CrashError]
// carrying the original value, alongside the stack captured at the
// point of recovery.
//
// Run blocks for as long as invoke takes; it applies no timeout of its
// own. Callers that want one should derive ctx with
// context.WithTimeout before calling Run. Run cannot return
// early if invoke never honors ctx cancellation and never returns: Go
// has no way to force a goroutine to stop, so a stuck invocation leaks
// a goroutine until the process exits.
func Run(ctx context.Context, w *worker.Type, args any) Outcome {
	done := make(chan Outcome, 1)

	go func() {
		done <- invoke(ctx, w, args)
	}()

	return <-done
}

// invoke runs w against args and recovers a panic into a CrashError.
func invoke(ctx context.Context, w *worker.Type, args any) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeCrash(&CrashError{Worker: w.Name, Value: r}, string(debug.Stack()))
		}
	}()

	if err := w.Invoke(ctx, args); err != nil {
		return OutcomeFailure(err)
	}
	return OutcomeSuccess()
}
