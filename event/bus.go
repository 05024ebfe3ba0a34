package event

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default per-subscriber event buffer.
const DefaultBufferSize = 64

// Handle identifies a subscription for later Unsubscribe. The zero
// Handle is never issued, so callers can use it as a "not subscribed"
// sentinel.
type Handle struct {
	id uint64
}

// Bus fans published events out to every current subscriber. A publish
// is asynchronous and fire-and-forget from the publisher's perspective,
// but delivery to any one subscriber is ordered: two events for the same
// job arrive at a listener in publish order.
//
// Grounded on the same per-subscriber buffered-channel-plus-goroutine
// shape used for stream fan-out, trimmed of topics and credit-based flow
// control: every listener sees every event, and backpressure is handled
// by dropping rather than throttling the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]*subscriber
	nextID      uint64

	logger  *slog.Logger
	dropped atomic.Int64
}

type subscriber struct {
	ch chan Event
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report dropped events. The default
// discards log output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) { b.logger = logger }
}

// NewBus creates an empty event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subscribers: make(map[uint64]*subscriber),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a listener and returns a Handle for Unsubscribe.
// The listener runs on a dedicated goroutine reading a buffered channel,
// so a slow listener cannot block Publish or other listeners; once its
// buffer fills, further events for it are dropped and counted.
func (b *Bus) Subscribe(listener Listener) Handle {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	sub := &subscriber{ch: make(chan Event, DefaultBufferSize)}
	b.subscribers[id] = sub
	b.mu.Unlock()

	go func() {
		for evt := range sub.ch {
			listener(evt)
		}
	}()

	return Handle{id: id}
}

// Unsubscribe removes a listener. It is safe to call more than once
// with the same Handle; the second call is a no-op.
func (b *Bus) Unsubscribe(h Handle) {
	b.mu.Lock()
	sub, ok := b.subscribers[h.id]
	if ok {
		delete(b.subscribers, h.id)
	}
	b.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish fans evt out to every subscriber registered at the moment of
// the call. It never blocks on a subscriber: delivery to a full buffer
// is dropped rather than awaited.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- evt:
		default:
			b.dropped.Add(1)
			b.logger.Warn("event: dropped event for slow subscriber",
				"kind", evt.Kind.String())
		}
	}
}

// Dropped returns the number of events dropped so far due to a full
// subscriber buffer.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close unsubscribes every listener and stops their goroutines.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subscribers
	b.subscribers = make(map[uint64]*subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
	}
}
