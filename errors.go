package joq

import "errors"

var (
	// ErrUnknownWorker is returned by Enqueue when no worker type has
	// been registered under the given name.
	ErrUnknownWorker = errors.New("joq: unknown worker")

	// ErrAlreadyClosed is returned by Enqueue once Close has been called.
	ErrAlreadyClosed = errors.New("joq: queue is closed")
)
