// Package joq provides a non-persistent, in-process background job
// queue: register worker types, enqueue jobs against them, and subscribe
// to each job's terminal outcome. Everything lives in memory for the
// process's lifetime; there is no store, no wire protocol, and no
// cluster coordination.
//
// # Quick Start
//
//	q, err := joq.New(joq.WithLogger(logger))
//	q.RegisterWorker(worker.Define("send-email", sendEmail))
//
//	q.Subscribe(func(evt event.Event) {
//	    if evt.Kind == event.Failed {
//	        log.Printf("job %s failed: %v", evt.Job.ID, evt.Err)
//	    }
//	})
//
//	j, err := q.Enqueue(ctx, "send-email", emailArgs{To: "a@example.com"})
//
// # Architecture
//
// Enqueue hands the job to a runner.Coordinator, which loops a
// scheduler.Scheduler — the single serial admission-control point for
// every worker type — until the submission reaches a terminal outcome,
// then publishes exactly one event.Event on the Queue's event.Bus.
// Concurrency caps, duplicate suppression, and delayed scheduling are
// all enforced by the scheduler; retries are entirely the runner's
// concern.
package joq
