// Package publisher fans registry audit events out to an audit.Store, either
// synchronously or through a bounded buffer drained by one goroutine.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "pns/pkg/platform/audit"
)

// Publisher stamps and forwards audit events.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	buffer chan audit.Event
	done   chan struct{}
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a buffer of size n. When the
// buffer is full Emit writes synchronously instead of dropping the event.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan audit.Event, n)
		}
	}
}

// WithLogger sets a logger for asynchronous write failures.
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
	if p.buffer != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit stamps id, timestamp and category, then hands the event to the store.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.buffer != nil && !p.closed {
		select {
		case p.buffer <- event:
			return nil
		default:
		}
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.buffer {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Warn("failed to persist audit event", "action", event.Action, "subject", event.Subject, "error", err)
		}
	}
}

// Close flushes buffered events. Emit keeps working synchronously afterwards.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed || p.buffer == nil {
		p.closed = true
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.buffer)
	p.mu.Unlock()
	<-p.done
}
