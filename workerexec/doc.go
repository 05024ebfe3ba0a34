// Package workerexec runs a single job invocation in isolation and
// turns whatever happens — a clean return, an error, or a panic — into
// a plain Outcome value the caller can inspect without a recover of its
// own.
package workerexec
