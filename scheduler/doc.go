// Package scheduler owns admission: it decides when a job is allowed
// to run, enforcing each worker type's concurrency cap, FIFO ordering
// among waiters of the same worker, delayed execution, and duplicate
// suppression.
//
// All mutable scheduling state lives inside a single goroutine
// (Scheduler.run) that drains a command channel one message at a
// time. Callers never touch that state directly: Run sends a request
// and blocks on a private reply channel for admit(job) or drop, the
// same correlation-channel rendezvous used elsewhere for routing a
// reply back to exactly the caller that asked for it. This keeps every
// mutation serialized through one control point without fine-grained
// locks, at the cost of requiring every state change to flow through
// that goroutine's mailbox.
package scheduler
