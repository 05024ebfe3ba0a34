package workerexec

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/FelixKiunke/joq/worker"
)

func TestRun_Success(t *testing.T) {
	w := worker.Define("noop", func(ctx context.Context, in struct{}) error { return nil })

	out := Run(context.Background(), w, struct{}{})
	if !out.Success() {
		t.Fatalf("expected success, got %+v", out)
	}
}

func TestRun_HandlerError(t *testing.T) {
	wantErr := errors.New("boom")
	w := worker.Define("fails", func(ctx context.Context, in struct{}) error { return wantErr })

	out := Run(context.Background(), w, struct{}{})
	if out.Success() {
		t.Fatal("expected failure")
	}
	if !errors.Is(out.Err, wantErr) {
		t.Fatalf("got %v, want %v", out.Err, wantErr)
	}
	if out.Stack != "" {
		t.Fatal("expected no stack trace for an ordinary error")
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	w := worker.Define("panics", func(ctx context.Context, in struct{}) error {
		panic("kaboom")
	})

	out := Run(context.Background(), w, struct{}{})
	if out.Success() {
		t.Fatal("expected failure from panic")
	}

	var crash *CrashError
	if !errors.As(out.Err, &crash) {
		t.Fatalf("expected CrashError, got %T: %v", out.Err, out.Err)
	}
	if crash.Value != "kaboom" {
		t.Fatalf("unexpected panic value: %v", crash.Value)
	}
	if out.Stack == "" || !strings.Contains(out.Stack, "goroutine") {
		t.Fatalf("expected a captured stack trace, got %q", out.Stack)
	}
}

func TestRun_ArgTypeMismatchIsAFailureNotAPanic(t *testing.T) {
	w := worker.Define("typed", func(ctx context.Context, in string) error { return nil })

	out := Run(context.Background(), w, 42)
	if out.Success() {
		t.Fatal("expected failure on type mismatch")
	}
	if out.Stack != "" {
		t.Fatal("type mismatch should not be reported as a crash")
	}
}
