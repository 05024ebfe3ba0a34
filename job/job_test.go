package job_test

import (
	"testing"

	"github.com/FelixKiunke/joq/job"
)

func TestEqualForDedup_SameWorkerAndArgs(t *testing.T) {
	a := &job.Job{ID: "a", Worker: "send-email", Args: map[string]string{"to": "x@example.com"}}
	b := &job.Job{ID: "b", Worker: "send-email", Args: map[string]string{"to": "x@example.com"}}

	if !job.EqualForDedup(a, b) {
		t.Error("expected equal-for-dedup despite different IDs")
	}
}

func TestEqualForDedup_DifferentWorker(t *testing.T) {
	a := &job.Job{Worker: "send-email", Args: "same"}
	b := &job.Job{Worker: "send-sms", Args: "same"}

	if job.EqualForDedup(a, b) {
		t.Error("expected not equal for different workers")
	}
}

func TestEqualForDedup_DifferentArgs(t *testing.T) {
	a := &job.Job{Worker: "send-email", Args: "alice"}
	b := &job.Job{Worker: "send-email", Args: "bob"}

	if job.EqualForDedup(a, b) {
		t.Error("expected not equal for different args")
	}
}

func TestEqualForDedup_NilArgs(t *testing.T) {
	a := &job.Job{Worker: "ping", Args: nil}
	b := &job.Job{Worker: "ping", Args: nil}

	if !job.EqualForDedup(a, b) {
		t.Error("expected equal for matching nil args")
	}
}
