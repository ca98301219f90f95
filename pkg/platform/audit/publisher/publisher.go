// Package publisher fans care audit events into an audit.Store, either inline
// or through a buffered background worker.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	audit "carelock/pkg/platform/audit"
	"carelock/pkg/requestcontext"
)

// Publisher enriches events with request metadata and hands them to a store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer int
	queue  chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once

	// mu guards closed; Emit holds it shared while sending so Close cannot
	// close the queue under a sender.
	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking; events are queued up to size and
// written by a background worker. Close drains the queue.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = size
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer > 0 {
		p.queue = make(chan audit.Event, p.buffer)
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records the event. In async mode a full queue drops the event and logs
// it rather than blocking the caller. Emit after Close is a no-op.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		if p.logger != nil {
			p.logger.DebugContext(ctx, "audit publisher closed, dropping event", "action", event.Action)
		}
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit queue full, dropping event",
				"action", event.Action,
				"patient_id", event.PatientID,
			)
		}
	}
	return nil
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("audit append failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (p *Publisher) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.queue != nil {
			close(p.queue)
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
}
