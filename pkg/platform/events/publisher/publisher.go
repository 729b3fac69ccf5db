// Package publisher emits lifecycle events to a store and optional
// fan-out sinks. Synchronous by default; an async buffered mode keeps event
// emission off the request path when a slow sink (Kafka, Postgres) is wired.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"leasebook/pkg/domain"
	"leasebook/pkg/platform/events"
)

// Sink receives a copy of every emitted event. Sinks are best-effort: a sink
// failure is logged, never propagated to the emitting operation.
type Sink interface {
	Publish(ctx context.Context, event events.Event) error
}

// Publisher appends events to its store and fans out to sinks.
type Publisher struct {
	store  events.Store
	sinks  []Sink
	logger *slog.Logger

	inbox   chan events.Event
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// channel capacity. When the buffer is full events are dropped rather than
// blocking the caller.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan events.Event, size)
	}
}

// WithSink adds a fan-out sink.
func WithSink(s Sink) Option {
	return func(p *Publisher) {
		p.sinks = append(p.sinks, s)
	}
}

// WithLogger sets the logger used for sink failures and drops.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store events.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.run()
	}
	return p
}

// Emit records an event. A zero timestamp is stamped with the current time.
// In async mode Emit never blocks; in sync mode it returns the store error.
func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.deliver(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.Warn("event buffer full, dropping event",
			"type", string(event.Type),
			"property", event.Property.String(),
		)
		return nil
	}
}

// List returns a property's recorded events.
func (p *Publisher) List(ctx context.Context, property domain.PropertyID) ([]events.Event, error) {
	return p.store.ListByProperty(ctx, property)
}

// Close drains the async buffer, delivering every queued event before
// returning. Safe to call more than once.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.inbox == nil {
		return
	}
	close(p.inbox)
	<-p.done
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.deliver(context.Background(), event); err != nil {
			p.logger.Error("event delivery failed",
				"type", string(event.Type),
				"property", event.Property.String(),
				"error", err,
			)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, event events.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, s := range p.sinks {
		if err := s.Publish(ctx, event); err != nil {
			p.logger.Error("event sink failed",
				"type", string(event.Type),
				"property", event.Property.String(),
				"error", err,
			)
		}
	}
	return nil
}
