// Package worker defines the worker type: the static descriptor that
// tells the scheduler how many copies of a job may run simultaneously,
// how duplicates are handled, and what code actually runs when a job is
// admitted.
//
// Declare a worker with [Define], which accepts a typed invoke function
// and closes over a type assertion so callers keep compile-time checked
// payloads without this package needing to know the payload type:
//
//	sendEmail := worker.Define("send-email",
//	    func(ctx context.Context, in EmailInput) error {
//	        return mailer.Send(in.To, in.Subject, in.Body)
//	    },
//	    worker.WithMaxConcurrent(5),
//	    worker.WithDuplicates(worker.Drop),
//	)
//
// Register it with a [Registry] so the scheduler can look it up by name:
//
//	reg := worker.NewRegistry()
//	reg.Register(sendEmail)
package worker
