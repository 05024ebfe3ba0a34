package worker

import (
	"context"
	"fmt"

	"github.com/FelixKiunke/joq/retry"
)

// Unbounded is the MaxConcurrent sentinel meaning no concurrency cap.
// It is also the zero value, so a Type built without specifying
// MaxConcurrent defaults to unbounded.
const Unbounded = 0

// DuplicatePolicy controls whether a worker type deduplicates jobs whose
// (worker, args) pair matches one already pending, delayed, or running.
type DuplicatePolicy int

const (
	// Accept admits every submission, even exact duplicates. The default.
	Accept DuplicatePolicy = iota
	// Drop suppresses redundant copies of an in-flight (worker, args) pair.
	Drop
)

// Invoke is the type-erased execution entry point a Type carries. Define
// builds one of these from a typed handler via a closed-over type
// assertion.
type Invoke func(ctx context.Context, args any) error

// Type is the static descriptor for one kind of job. It is effectively
// immutable for the process lifetime: construct it once with Define and
// register it before enqueuing jobs against its name.
type Type struct {
	// Name identifies this worker type. Jobs reference it by name.
	Name string

	// MaxConcurrent caps how many invocations of this worker may run at
	// once. Unbounded (0) means no cap.
	MaxConcurrent int

	// Retry optionally overrides the global retry policy for every job
	// submitted against this worker, short of a further per-job override.
	Retry *retry.Override

	// Duplicates controls whether redundant (worker, args) pairs are
	// suppressed. Accept by default.
	Duplicates DuplicatePolicy

	// invoke is the user-provided execution body, type-erased by Define.
	invoke Invoke
}

// Invoke runs the worker's execution body against an opaque args value.
func (t *Type) Invoke(ctx context.Context, args any) error {
	return t.invoke(ctx, args)
}

// Option configures a Type at declaration time.
type Option func(*Type)

// WithMaxConcurrent sets the concurrency cap. A non-positive value other
// than Unbounded is a configuration error, reported at Define time.
func WithMaxConcurrent(n int) Option {
	return func(t *Type) { t.MaxConcurrent = n }
}

// WithRetry sets the worker-level retry override. An invalid override
// (the same validation retry.Resolve performs) panics at Define time,
// the same declaration-time failure as a bad MaxConcurrent.
func WithRetry(o *retry.Override) Option {
	return func(t *Type) { t.Retry = o }
}

// WithDuplicates sets the duplicate suppression policy.
func WithDuplicates(p DuplicatePolicy) Option {
	return func(t *Type) { t.Duplicates = p }
}

// Define declares a worker type with a typed invoke function. The
// returned Type type-asserts args back to T before calling invoke; a
// mismatched Args value (a programming error on the caller's side, since
// Args is meant to be produced by code that knows which worker it is
// enqueuing for) surfaces as an ordinary worker error rather than a panic.
func Define[T any](name string, invoke func(ctx context.Context, args T) error, opts ...Option) *Type {
	t := &Type{
		Name:       name,
		Duplicates: Accept,
	}
	t.invoke = func(ctx context.Context, args any) error {
		typed, ok := args.(T)
		if !ok {
			return fmt.Errorf("worker %q: argument type mismatch: got %T, want %T", name, args, typed)
		}
		return invoke(ctx, typed)
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.MaxConcurrent != Unbounded && t.MaxConcurrent < 0 {
		panic(fmt.Sprintf("worker: %q: MaxConcurrent must be positive or Unbounded, got %d", name, t.MaxConcurrent))
	}
	if t.Retry != nil {
		if _, err := retry.Resolve(nil, t.Retry, nil); err != nil {
			panic(fmt.Sprintf("worker: %q: invalid retry override: %v", name, err))
		}
	}
	return t
}
