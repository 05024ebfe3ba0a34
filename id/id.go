// Package id generates opaque, unique identifiers for jobs and workers
// using TypeID (go.jetify.com/typeid/v2), the same scheme the teacher
// uses for every entity id. Unlike a persisted multi-process system,
// this core only needs an id unique within one process's lifetime, so
// callers get back a plain string rather than a parseable ID type —
// there is nothing here that ever round-trips an id back in from
// storage or the wire.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the kind of entity an ID was generated for. It
// becomes the TypeID prefix, making ids recognizable in logs.
type Prefix string

// Prefix constants for the entities this core hands out ids for.
const (
	PrefixJob    Prefix = "job"
	PrefixWorker Prefix = "wkr"
)

// New generates a new TypeID-formatted id with the given prefix, in the
// form "prefix_suffix" where suffix is a K-sortable, URL-safe UUIDv7
// encoding. It panics if prefix is not a valid TypeID prefix, which is a
// programming error caught at the two call sites below, never at an
// arbitrary caller-supplied value.
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// NewJobID generates a new unique job id.
func NewJobID() string { return New(PrefixJob) }

// NewWorkerID generates a new unique worker id.
func NewWorkerID() string { return New(PrefixWorker) }
