package joq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FelixKiunke/joq/retry"
	"github.com/FelixKiunke/joq/worker"
)

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestNew_InvalidGlobalRetryFailsFast(t *testing.T) {
	_, err := New(WithGlobalRetry(&retry.Override{Delay: durationPtr(-time.Second)}))

	var cfgErr *retry.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *retry.ConfigError, got %v", err)
	}
}

func TestEnqueue_InvalidJobRetryFailsFast(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	q.RegisterWorker(worker.Define("noop", func(ctx context.Context, in int) error { return nil }))

	j, err := q.Enqueue(context.Background(), "noop", 1, WithJobRetry(&retry.Override{Delay: durationPtr(-time.Second)}))

	var cfgErr *retry.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *retry.ConfigError, got %v", err)
	}
	if j != nil {
		t.Errorf("expected nil job on validation failure, got %+v", j)
	}
}

func TestEnqueue_UnknownWorkerFails(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = q.Enqueue(context.Background(), "missing", 1)
	if !errors.Is(err, ErrUnknownWorker) {
		t.Fatalf("expected ErrUnknownWorker, got %v", err)
	}
}
