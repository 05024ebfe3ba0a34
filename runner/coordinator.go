package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FelixKiunke/joq/event"
	"github.com/FelixKiunke/joq/job"
	"github.com/FelixKiunke/joq/retry"
	"github.com/FelixKiunke/joq/scheduler"
	"github.com/FelixKiunke/joq/worker"
)

// instrumentationName is the instrumentation scope name for runner's
// OpenTelemetry span and metric instruments.
const instrumentationName = "github.com/FelixKiunke/joq/runner"

// Coordinator drives the retry loop for every submission: it calls
// Scheduler.Run once per attempt, decides whether to retry from the
// resolved retry.Config, and publishes exactly one terminal event.Event
// per submission once it reaches a terminal outcome.
type Coordinator struct {
	registry  *worker.Registry
	scheduler *scheduler.Scheduler
	bus       *event.Bus

	globalRetry *retry.Override
	logger      *slog.Logger
	dlq         *DeadLetterSink

	tracer     trace.Tracer
	attempts   metric.Int64Counter
	submitted  metric.Int64Counter
	submission metric.Float64Histogram

	g errgroup.Group
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGlobalRetry sets the outermost retry layer, resolved beneath any
// worker-level or job-level override. Nil (the default) leaves the
// documented defaults from retry.Default in place.
func WithGlobalRetry(o *retry.Override) Option {
	return func(c *Coordinator) { c.globalRetry = o }
}

// WithLogger sets the logger used for retry and exhaustion diagnostics.
// The default discards log output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithDeadLetterSink attaches an optional observer that records every
// submission that exhausts its retries. Nil (the default) means no
// submissions are retained anywhere once they reach a terminal Failed
// event.
func WithDeadLetterSink(sink *DeadLetterSink) Option {
	return func(c *Coordinator) { c.dlq = sink }
}

// WithTracer overrides the OpenTelemetry tracer used for the per-submission
// span. The default resolves a tracer from the global TracerProvider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = tracer }
}

// WithMeter overrides the OpenTelemetry meter used for submission metrics.
// The default resolves a meter from the global MeterProvider.
func WithMeter(meter metric.Meter) Option {
	return func(c *Coordinator) { c.buildInstruments(meter) }
}

// New creates a Coordinator wired to the given registry, scheduler, and
// event bus.
func New(registry *worker.Registry, sched *scheduler.Scheduler, bus *event.Bus, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:  registry,
		scheduler: sched,
		bus:       bus,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    otel.Tracer(instrumentationName),
	}
	c.buildInstruments(otel.Meter(instrumentationName))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) buildInstruments(meter metric.Meter) {
	c.submitted, _ = meter.Int64Counter(
		"joq.submission.terminations",
		metric.WithDescription("Total number of submissions reaching a terminal outcome"),
		metric.WithUnit("{submission}"),
	)
	c.attempts, _ = meter.Int64Counter(
		"joq.submission.attempts",
		metric.WithDescription("Total number of scheduler.Run attempts across all submissions"),
		metric.WithUnit("{attempt}"),
	)
	c.submission, _ = meter.Float64Histogram(
		"joq.submission.duration",
		metric.WithDescription("Wall-clock time from Submit to terminal outcome, in seconds"),
		metric.WithUnit("s"),
	)
}

// Submit enqueues j for execution and returns immediately. The actual
// work — the retry loop and the terminal event publish — happens on a
// goroutine whose lifetime Submit does not wait for; use Close to wait
// for all outstanding submissions to reach a terminal outcome.
func (c *Coordinator) Submit(ctx context.Context, j *job.Job) {
	c.g.Go(func() error {
		c.run(ctx, j)
		return nil
	})
}

// Close waits for every submission accepted so far to reach a terminal
// outcome, or for ctx to be canceled, whichever happens first. Submit
// must not be called concurrently with or after Close.
func (c *Coordinator) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- c.g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the retry loop for one submission: it attempts the job through
// the scheduler until it reaches a terminal outcome (success, dropped,
// or retries exhausted), publishing exactly one terminal event along the
// way. Per-submission attempt state lives entirely in this function's
// locals.
func (c *Coordinator) run(ctx context.Context, j *job.Job) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "joq.submission.run", trace.WithAttributes(
		attribute.String("joq.job.id", j.ID),
		attribute.String("joq.job.worker", j.Worker),
	))
	defer span.End()

	cfg, err := c.resolveRetry(j)
	if err != nil {
		c.logger.Error("submission rejected: invalid retry configuration",
			slog.String("job_id", j.ID),
			slog.String("worker", j.Worker),
			slog.String("error", err.Error()),
		)
		c.finish(ctx, span, j, event.Failed, err, start, 0)
		return
	}

	var delay *time.Duration
	attempt := 0

	for {
		result := c.scheduler.Run(ctx, j, delay)
		c.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("worker", j.Worker)))

		switch result.Status {
		case scheduler.StatusDropped:
			c.finish(ctx, span, j, event.Dropped, nil, start, attempt)
			return

		case scheduler.StatusSuccess:
			c.finish(ctx, span, j, event.Finished, nil, start, attempt)
			return

		case scheduler.StatusFailure:
			attempt++
			if !retry.ShouldRetry(cfg, attempt) {
				c.exhaust(ctx, j, result, attempt)
				c.finish(ctx, span, j, event.Failed, result.Err, start, attempt)
				return
			}

			d := retry.DelayFor(cfg, attempt)
			delay = &d
			c.logger.Warn("submission attempt failed, retrying",
				slog.String("job_id", j.ID),
				slog.String("worker", j.Worker),
				slog.Int("attempt", attempt),
				slog.Duration("delay", d),
				slog.String("error", result.Err.Error()),
			)
		}
	}
}

func (c *Coordinator) resolveRetry(j *job.Job) (retry.Config, error) {
	var workerRetry *retry.Override
	if w, ok := c.registry.Lookup(j.Worker); ok {
		workerRetry = w.Retry
	}
	return retry.Resolve(c.globalRetry, workerRetry, j.Retry)
}

// exhaust logs the terminal failure at error level with the full context
// an operator needs to diagnose it, and records it in the dead-letter
// sink if one is configured.
func (c *Coordinator) exhaust(ctx context.Context, j *job.Job, result scheduler.Result, attempt int) {
	c.logger.Error("submission exhausted retries",
		slog.String("job_id", j.ID),
		slog.String("worker", j.Worker),
		slog.Any("args", j.Args),
		slog.Int("attempts", attempt),
		slog.String("error", result.Err.Error()),
		slog.String("stack", result.Stack),
	)

	if c.dlq != nil {
		c.dlq.record(DeadLetterEntry{
			Job:      j,
			Err:      result.Err,
			Stack:    result.Stack,
			FailedAt: time.Now(),
		})
	}
}

// finish publishes the one terminal event for this submission, closes
// out its span, and records submission-level metrics. The outcome's
// stack trace, if any, was already logged and recorded by exhaust; it
// does not belong on the span.
func (c *Coordinator) finish(ctx context.Context, span trace.Span, j *job.Job, kind event.Kind, err error, start time.Time, attempt int) {
	c.bus.Publish(event.Event{Kind: kind, Job: j, Err: err})

	attrs := metric.WithAttributes(
		attribute.String("worker", j.Worker),
		attribute.String("outcome", kind.String()),
	)
	c.submitted.Add(ctx, 1, attrs)
	c.submission.Record(ctx, time.Since(start).Seconds(), attrs)

	span.SetAttributes(attribute.Int("joq.submission.attempts", attempt))
	if err != nil {
		span.RecordError(fmt.Errorf("%s: %w", kind, err))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
