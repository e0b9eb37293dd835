package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/requestcontext"
)

// ErrBufferFull is returned by Emit in async mode when the buffer cannot
// accept another event.
var ErrBufferFull = errors.New("audit buffer full")

// Store is the persistence surface the publisher writes to.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	ListRecent(ctx context.Context, q audit.Query) ([]audit.Event, error)
}

// Publisher stamps audit events with request metadata and appends them to a
// store. In sync mode Emit writes inline; with WithAsyncBuffer a single
// worker drains a bounded channel and Close flushes what is left.
type Publisher struct {
	store  Store
	logger *slog.Logger

	buffer    chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

type Option func(*Publisher)

// WithAsyncBuffer enables background persistence with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan audit.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records event. Missing fields are filled from ctx: timestamp from the
// request time, actor from the verified identity, request id and client IP
// from request metadata.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p == nil {
		return nil
	}
	event = enrich(ctx, event)
	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.logger.WarnContext(ctx, "audit event dropped",
			"request_id", event.RequestID,
			"action", event.Action,
		)
		return ErrBufferFull
	}
}

// List returns recent events matching q.
func (p *Publisher) List(ctx context.Context, q audit.Query) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, q)
}

// Close stops accepting buffered events and waits for the worker to persist
// the backlog.
func (p *Publisher) Close() {
	if p == nil || p.buffer == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.buffer)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		// The request context is gone by now; persistence gets its own budget.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.Error("failed to persist audit event",
				"request_id", event.RequestID,
				"action", event.Action,
				"error", err,
			)
		}
		cancel()
	}
}

func enrich(ctx context.Context, event audit.Event) audit.Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Email(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	event.Category = audit.AuditEvent(event.Action).Category()
	return event
}
