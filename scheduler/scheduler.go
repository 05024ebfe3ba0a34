package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/FelixKiunke/joq/job"
	"github.com/FelixKiunke/joq/middleware"
	"github.com/FelixKiunke/joq/queue"
	"github.com/FelixKiunke/joq/worker"
	"github.com/FelixKiunke/joq/workerexec"
)

// ErrUnknownWorker is returned when Run is asked to schedule a job
// against a worker name that was never registered.
var ErrUnknownWorker = errors.New("scheduler: unknown worker")

// defaultRateLimitRetry is how soon a capacity-available-but-rate-limited
// admission is retried.
const defaultRateLimitRetry = 50 * time.Millisecond

// Scheduler is the single serial admission control point for every
// worker type. Create one with New and call Run for each submission
// attempt; Run blocks until that attempt reaches a terminal Result.
type Scheduler struct {
	registry *worker.Registry
	limiter  *queue.Limiter
	logger   *slog.Logger
	mw       middleware.Middleware

	rateLimitRetry time.Duration

	cmdCh   chan schedCmd
	resetCh chan time.Time
	closeCh chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLimiter attaches an optional per-worker rate limiter, consulted
// immediately before a capacity-available admission; a worker that has
// no configured limit is never affected.
func WithLimiter(l *queue.Limiter) Option {
	return func(s *Scheduler) { s.limiter = l }
}

// WithLogger sets the logger used for diagnostic output. The default
// discards log output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithMiddleware wraps every worker invocation in the given middleware
// chain, applied outermost-first, around workerexec.Run. The default
// is an empty chain: workerexec.Run is called directly.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Scheduler) { s.mw = middleware.Chain(mws...) }
}

// WithRateLimitRetry overrides how soon a capacity-available-but-rate-
// limited admission is retried. The default is defaultRateLimitRetry.
func WithRateLimitRetry(d time.Duration) Option {
	return func(s *Scheduler) { s.rateLimitRetry = d }
}

// New creates a Scheduler and starts its actor and timer goroutines.
// Call Close to stop them.
func New(registry *worker.Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry:       registry,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		mw:             middleware.Chain(),
		rateLimitRetry: defaultRateLimitRetry,
		cmdCh:          make(chan schedCmd),
		resetCh:        make(chan time.Time, 1),
		closeCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	go s.runTimer()
	return s
}

// Close stops the scheduler's goroutines. Any waiter still parked on a
// reply channel is abandoned; per the documented crash-loses-jobs
// behavior, callers of a closed Scheduler must not call Run again.
func (s *Scheduler) Close() {
	close(s.closeCh)
}

// Run schedules one execution attempt of j against its worker type,
// honoring delay as an override for j.DelayUntil. Run blocks until the
// attempt is admitted-and-executed, dropped as a duplicate, or (if the
// worker is unknown) rejected synchronously.
//
// A nil delay with an unbounded, non-deduplicating worker bypasses
// scheduling state entirely and invokes the worker directly: this
// optimization does not change observable behavior, since the slow
// path would admit immediately in that situation anyway.
func (s *Scheduler) Run(ctx context.Context, j *job.Job, delay *time.Duration) Result {
	w, ok := s.registry.Lookup(j.Worker)
	if !ok {
		return Result{Status: StatusFailure, Job: j, Err: fmt.Errorf("%w: %q", ErrUnknownWorker, j.Worker)}
	}

	runAt := resolveRunAt(j, delay)

	if runAt.IsZero() && w.MaxConcurrent == worker.Unbounded && w.Duplicates != worker.Drop {
		return s.execute(ctx, j, w)
	}

	reply := make(chan signalKind, 1)
	select {
	case s.cmdCh <- requestRunCmd{job: j, w: w, runAt: runAt, reply: reply}:
	case <-ctx.Done():
		return Result{Status: StatusFailure, Job: j, Err: ctx.Err()}
	}

	sig := <-reply
	if sig == signalDrop {
		return Result{Status: StatusDropped, Job: j}
	}

	result := s.execute(ctx, j, w)

	select {
	case s.cmdCh <- confirmDoneCmd{worker: w.Name, job: j}:
	case <-s.closeCh:
	}

	return result
}

// resolveRunAt computes run_at per spec: delay override, else
// job.DelayUntil, else absent (the zero time.Time).
func resolveRunAt(j *job.Job, delay *time.Duration) time.Time {
	if delay != nil {
		return time.Now().Add(*delay)
	}
	if j.DelayUntil != nil {
		return *j.DelayUntil
	}
	return time.Time{}
}

// execute runs the worker body through the middleware chain and
// translates the outcome into a Result. The terminal handler in the
// chain is workerexec.Run itself, so panic recovery, tracing, metrics,
// and logging all see exactly one attempt per call.
func (s *Scheduler) execute(ctx context.Context, j *job.Job, w *worker.Type) Result {
	var stack string
	terminal := func(ctx context.Context) error {
		outcome := workerexec.Run(ctx, w, j.Args)
		stack = outcome.Stack
		return outcome.Err
	}

	if err := s.mw(ctx, j, terminal); err != nil {
		return Result{Status: StatusFailure, Job: j, Err: err, Stack: stack}
	}
	return Result{Status: StatusSuccess, Job: j}
}

// ── actor goroutine ─────────────────────────────────────────────────

func (s *Scheduler) run() {
	state := make(map[string]*workerState)
	dh := &delayedHeap{}
	heap.Init(dh)

	for {
		select {
		case cmd := <-s.cmdCh:
			switch c := cmd.(type) {
			case requestRunCmd:
				s.admit(state, dh, c.job, c.w, c.runAt, c.reply)
				s.rearmTimer(dh)
			case confirmDoneCmd:
				s.handleConfirmDone(state, dh, c)
				s.rearmTimer(dh)
			case timerFireCmd:
				s.handleTimerFire(state, dh)
				s.rearmTimer(dh)
			}
		case <-s.closeCh:
			return
		}
	}
}

func workerStateFor(state map[string]*workerState, name string) *workerState {
	ws, ok := state[name]
	if !ok {
		ws = &workerState{}
		state[name] = ws
	}
	return ws
}

func withinCap(ws *workerState, w *worker.Type) bool {
	if w.MaxConcurrent == worker.Unbounded {
		return true
	}
	return len(ws.running) < w.MaxConcurrent
}

// admit runs the admission algorithm for one waiter, steps 1-4.
func (s *Scheduler) admit(state map[string]*workerState, dh *delayedHeap, j *job.Job, w *worker.Type, runAt time.Time, reply chan signalKind) {
	ws := workerStateFor(state, w.Name)

	// Step 1: immediate drop-dedup.
	if w.Duplicates == worker.Drop && ws.hasEqualForDedup(j) {
		reply <- signalDrop
		return
	}

	// Step 2: delayed.
	if !runAt.IsZero() && runAt.After(time.Now()) {
		entry := &delayedEntry{runAt: runAt, job: j, w: w, reply: reply}
		if w.Duplicates == worker.Drop {
			s.insertDelayedDedup(dh, entry)
		} else {
			heap.Push(dh, entry)
		}
		return
	}

	// Steps 3/4: admit now or enqueue pending.
	s.admitOrQueue(dh, ws, j, w, reply)
}

func (s *Scheduler) admitOrQueue(dh *delayedHeap, ws *workerState, j *job.Job, w *worker.Type, reply chan signalKind) {
	if !withinCap(ws, w) {
		ws.pending = append(ws.pending, &waiter{job: j, reply: reply})
		return
	}

	if s.limiter != nil && !s.limiter.Allow(w.Name) {
		// Capacity is available but the rate limiter is not: retry
		// shortly by re-entering through the delayed path, rather than
		// occupying a pending slot another waiter could use.
		heap.Push(dh, &delayedEntry{runAt: time.Now().Add(s.rateLimitRetry), job: j, w: w, reply: reply})
		return
	}

	ws.running = append(ws.running, j)
	reply <- signalAdmit
	s.dropOnAdmit(dh, ws, j, w)
}

// handleConfirmDone implements the completion rule: free one running
// slot, then drain at most one pending waiter into it.
func (s *Scheduler) handleConfirmDone(state map[string]*workerState, dh *delayedHeap, c confirmDoneCmd) {
	ws := workerStateFor(state, c.worker)
	if !ws.removeRunning(c.job) {
		panic(fmt.Sprintf("scheduler: confirm_done for job %q not found in running(%s)", c.job.ID, c.worker))
	}

	w, ok := s.registry.Lookup(c.worker)
	if !ok || len(ws.pending) == 0 || !withinCap(ws, w) {
		return
	}

	// The rate limiter is not consulted here: it gates new admissions
	// at request_run (see admitOrQueue), not the completion-driven
	// pending drain. Re-checking it on every confirm_done would let a
	// throttled worker's pending FIFO stall indefinitely whenever a
	// slot frees up faster than its rate allows.
	head := ws.pending[0]
	ws.pending = ws.pending[1:]
	ws.running = append(ws.running, head.job)
	head.reply <- signalAdmit
	s.dropOnAdmit(dh, ws, head.job, w)
}

// handleTimerFire partitions the delayed heap into due and future
// entries, re-entering admission for every due one with run_at absent.
func (s *Scheduler) handleTimerFire(state map[string]*workerState, dh *delayedHeap) {
	now := time.Now()
	var due []*delayedEntry
	for dh.Len() > 0 && !(*dh)[0].runAt.After(now) {
		due = append(due, heap.Pop(dh).(*delayedEntry))
	}
	for _, e := range due {
		s.admit(state, dh, e.job, e.w, time.Time{}, e.reply)
	}
}

// insertDelayedDedup implements the delayed-dedup rule: among a new
// delayed entry and any existing delayed entries equal-for-dedup to
// it, keep only the one with the smallest run_at and drop the rest.
func (s *Scheduler) insertDelayedDedup(dh *delayedHeap, newEntry *delayedEntry) {
	var matches []*delayedEntry
	for _, e := range *dh {
		if e.w.Name == newEntry.w.Name && job.EqualForDedup(e.job, newEntry.job) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		heap.Push(dh, newEntry)
		return
	}

	best := newEntry
	for _, e := range matches {
		if e.runAt.Before(best.runAt) {
			best = e
		}
	}

	if best == newEntry {
		for _, e := range matches {
			heap.Remove(dh, e.index)
			e.reply <- signalDrop
		}
		heap.Push(dh, newEntry)
		return
	}

	for _, e := range matches {
		if e != best {
			heap.Remove(dh, e.index)
			e.reply <- signalDrop
		}
	}
	newEntry.reply <- signalDrop
}

// dropOnAdmit implements the drop-on-admit rule: once j is running,
// any delayed entry that duplicates it is now redundant.
func (s *Scheduler) dropOnAdmit(dh *delayedHeap, ws *workerState, j *job.Job, w *worker.Type) {
	if w.Duplicates != worker.Drop {
		return
	}
	for i := 0; i < dh.Len(); {
		e := (*dh)[i]
		if e.w.Name == w.Name && job.EqualForDedup(e.job, j) {
			heap.Remove(dh, e.index)
			e.reply <- signalDrop
			continue
		}
		i++
	}
}

func (s *Scheduler) rearmTimer(dh *delayedHeap) {
	target := time.Time{}
	if dh.Len() > 0 {
		target = (*dh)[0].runAt
	}
	for {
		select {
		case s.resetCh <- target:
			return
		default:
			select {
			case <-s.resetCh:
			default:
			}
		}
	}
}

// ── timer goroutine ─────────────────────────────────────────────────

func (s *Scheduler) runTimer() {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	armed := false

	for {
		select {
		case target := <-s.resetCh:
			if armed {
				timer.Stop()
				armed = false
			}
			if target.IsZero() {
				continue
			}
			d := time.Until(target)
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
			armed = true

		case <-timer.C:
			armed = false
			select {
			case s.cmdCh <- timerFireCmd{}:
			case <-s.closeCh:
				return
			}

		case <-s.closeCh:
			return
		}
	}
}
