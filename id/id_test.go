package id_test

import (
	"strings"
	"testing"

	"github.com/FelixKiunke/joq/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() string
		prefix string
	}{
		{"JobID", id.NewJobID, "job_"},
		{"WorkerID", id.NewWorkerID, "wkr_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	got := id.New(id.PrefixJob)
	if !strings.HasPrefix(got, "job_") {
		t.Errorf("expected prefix %q, got %q", "job_", got)
	}
	if got == string(id.PrefixJob)+"_" {
		t.Error("expected a non-empty random suffix")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewJobID()
	b := id.NewJobID()
	if a == b {
		t.Errorf("two consecutive NewJobID() calls returned the same id: %q", a)
	}
}
