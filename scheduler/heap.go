package scheduler

import (
	"time"

	"github.com/FelixKiunke/joq/job"
	"github.com/FelixKiunke/joq/worker"
)

// delayedEntry is one submission waiting for its run_at to arrive.
type delayedEntry struct {
	runAt time.Time
	job   *job.Job
	w     *worker.Type
	reply chan signalKind
	index int // heap.Interface bookkeeping
}

// delayedHeap is a min-heap on runAt, giving the scheduler the earliest
// due entry in O(log n) without polling.
type delayedHeap []*delayedEntry

func (h delayedHeap) Len() int { return len(h) }

func (h delayedHeap) Less(i, j int) bool { return h[i].runAt.Before(h[j].runAt) }

func (h delayedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *delayedHeap) Push(x any) {
	entry := x.(*delayedEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *delayedHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}
