package joq

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FelixKiunke/joq/event"
	"github.com/FelixKiunke/joq/middleware"
	"github.com/FelixKiunke/joq/queue"
	"github.com/FelixKiunke/joq/retry"
	"github.com/FelixKiunke/joq/runner"
	"github.com/FelixKiunke/joq/scheduler"
	"github.com/FelixKiunke/joq/worker"
)

// Option configures a Queue at construction time. Options are applied
// in order, then New wires the scheduler, event bus, and runner
// coordinator from the accumulated settings.
type Option func(*Queue) error

// Queue is the top-level handle: register worker types against it, then
// Enqueue jobs and Subscribe to their terminal events. Create one with
// New and functional options; call Close to let outstanding submissions
// drain.
type Queue struct {
	config Config
	logger *slog.Logger

	registry  *worker.Registry
	scheduler *scheduler.Scheduler
	bus       *event.Bus
	runner    *runner.Coordinator

	globalRetry        *retry.Override
	rateLimits         []queue.Config
	deadLetterCapacity int
	middleware         []middleware.Middleware
	tracer             trace.Tracer
	meter              metric.Meter

	closed bool
}

// New creates a Queue, applies opts, and wires the scheduler, event bus,
// and runner coordinator. A global retry override set via WithGlobalRetry
// is validated here, so a malformed process-wide policy fails at process
// start rather than on a job's first retry. Register worker types with
// RegisterWorker before calling Enqueue.
func New(opts ...Option) (*Queue, error) {
	q := &Queue{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}

	if q.globalRetry != nil {
		if _, err := retry.Resolve(q.globalRetry, nil, nil); err != nil {
			return nil, err
		}
	}

	q.registry = worker.NewRegistry()

	schedOpts := []scheduler.Option{scheduler.WithLogger(q.logger)}
	if len(q.rateLimits) > 0 {
		schedOpts = append(schedOpts, scheduler.WithLimiter(queue.NewLimiter(q.rateLimits...)))
	}
	if len(q.middleware) > 0 {
		schedOpts = append(schedOpts, scheduler.WithMiddleware(q.middleware...))
	}
	if q.config.RateLimitRetry > 0 {
		schedOpts = append(schedOpts, scheduler.WithRateLimitRetry(q.config.RateLimitRetry))
	}
	q.scheduler = scheduler.New(q.registry, schedOpts...)

	q.bus = event.NewBus(event.WithLogger(q.logger))

	runnerOpts := []runner.Option{runner.WithLogger(q.logger)}
	if q.globalRetry != nil {
		runnerOpts = append(runnerOpts, runner.WithGlobalRetry(q.globalRetry))
	}
	if q.config.DeadLetterCapacity > 0 {
		runnerOpts = append(runnerOpts, runner.WithDeadLetterSink(runner.NewDeadLetterSink(q.config.DeadLetterCapacity)))
	}
	if q.tracer != nil {
		runnerOpts = append(runnerOpts, runner.WithTracer(q.tracer))
	}
	if q.meter != nil {
		runnerOpts = append(runnerOpts, runner.WithMeter(q.meter))
	}
	q.runner = runner.New(q.registry, q.scheduler, q.bus, runnerOpts...)

	return q, nil
}

// WithLogger sets the structured logger shared by the scheduler, event
// bus, and runner. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) error {
		q.logger = l
		return nil
	}
}

// WithConfig overrides the process-wide defaults. The default is
// DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(q *Queue) error {
		q.config = cfg
		return nil
	}
}

// WithGlobalRetry sets the outermost retry layer, resolved beneath any
// worker-level or job-level override.
func WithGlobalRetry(o *retry.Override) Option {
	return func(q *Queue) error {
		q.globalRetry = o
		return nil
	}
}

// WithRateLimit configures an optional requests-per-second admission
// cap for one worker, independent of and in addition to that worker's
// concurrency cap.
func WithRateLimit(workerName string, rps float64, burst int) Option {
	return func(q *Queue) error {
		q.rateLimits = append(q.rateLimits, queue.Config{Worker: workerName, RateLimit: rps, RateBurst: burst})
		return nil
	}
}

// WithMiddleware wraps every worker invocation in the given middleware
// chain, applied outermost-first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(q *Queue) error {
		q.middleware = append(q.middleware, mws...)
		return nil
	}
}

// WithTracer overrides the OpenTelemetry tracer used for per-submission
// spans. The default resolves a tracer from the global TracerProvider.
func WithTracer(tracer trace.Tracer) Option {
	return func(q *Queue) error {
		q.tracer = tracer
		return nil
	}
}

// WithMeter overrides the OpenTelemetry meter used for submission
// metrics. The default resolves a meter from the global MeterProvider.
func WithMeter(meter metric.Meter) Option {
	return func(q *Queue) error {
		q.meter = meter
		return nil
	}
}

// Logger returns the queue's logger.
func (q *Queue) Logger() *slog.Logger { return q.logger }

// Config returns a copy of the queue's configuration.
func (q *Queue) Config() Config { return q.config }

// RegisterWorker registers a worker type. It panics if a worker is
// already registered under the same name, per worker.Registry.Register —
// a startup-time programming error, not a runtime condition to recover
// from.
func (q *Queue) RegisterWorker(t *worker.Type) {
	q.registry.Register(t)
}

// Subscribe registers a listener for every job's terminal event.
func (q *Queue) Subscribe(listener event.Listener) event.Handle {
	return q.bus.Subscribe(listener)
}

// Unsubscribe removes a listener registered with Subscribe.
func (q *Queue) Unsubscribe(h event.Handle) {
	q.bus.Unsubscribe(h)
}

// Close stops accepting new submissions and waits for every outstanding
// one to reach a terminal outcome, or for ctx to be canceled, whichever
// happens first.
func (q *Queue) Close(ctx context.Context) error {
	q.closed = true
	err := q.runner.Close(ctx)
	q.scheduler.Close()
	q.bus.Close()
	return err
}
