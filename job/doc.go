// Package job defines the Job value type shared by every other package
// in this module. A Job is a plain, immutable value — there is no
// embedded entity, state machine, or store here, because this core never
// persists a Job: it lives for exactly one submission and is discarded
// after its terminal event.
package job
