// Package service picks the counter store for each rate limit check.
package service

import (
	"context"
	"log/slog"
	"time"

	"contesthub/internal/ratelimit/models"
	"contesthub/pkg/platform/circuit"
)

// BucketStore counts requests in fixed windows.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Limiter checks the primary store and falls back to an in-process store
// while the primary is failing.
type Limiter struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Limiter) { l.breaker = b }
}

// New builds a Limiter. A nil primary uses fallback alone.
func New(primary, fallback BucketStore, opts ...Option) *Limiter {
	l := &Limiter{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("ratelimit"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	if l.primary == nil {
		return l.fallback.Allow(ctx, key, limit, window)
	}

	result, err := l.primary.Allow(ctx, key, limit, window)
	if err != nil {
		_, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "rate limit store unavailable, using in-memory fallback", "error", err)
		}
		return l.degraded(ctx, key, limit, window)
	}

	usePrimary, change := l.breaker.RecordSuccess()
	if change.Closed {
		l.logger.InfoContext(ctx, "rate limit store recovered")
	}
	if !usePrimary {
		return l.degraded(ctx, key, limit, window)
	}
	return result, nil
}

func (l *Limiter) degraded(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	result, err := l.fallback.Allow(ctx, key, limit, window)
	if err != nil {
		return nil, err
	}
	result.Degraded = true
	return result, nil
}
