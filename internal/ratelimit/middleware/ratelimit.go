// Package middleware applies per-route request limits keyed by user or IP.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"contesthub/internal/platform/metrics"
	"contesthub/internal/ratelimit/models"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Auditor records rejected requests.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// RateLimiter counts one request against key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

type Middleware struct {
	limiter  RateLimiter
	metrics  *metrics.Metrics
	logger   *slog.Logger
	window   time.Duration
	disabled bool
	auditor  Auditor
}

type Option func(*Middleware)

// WithDisabled turns every limit into a passthrough.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

func WithAuditor(a Auditor) Option {
	return func(m *Middleware) { m.auditor = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) { mw.metrics = m }
}

// WithWindow overrides the one-minute window.
func WithWindow(d time.Duration) Option {
	return func(m *Middleware) {
		if d > 0 {
			m.window = d
		}
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
		window:  time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit allows limit requests per window on route. Authenticated callers are
// counted by email, anonymous ones by client IP. A non-positive limit
// disables the check.
func (m *Middleware) Limit(route string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m.disabled || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			keyType, identifier := callerKey(ctx)

			result, err := m.limiter.Allow(ctx, models.NewKey(route, keyType, identifier), limit, m.window)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"error", err,
					"route", route,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.metrics.IncrementRateLimitHit(route, string(keyType))
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"route", route,
					"key_type", keyType,
					"request_id", requestcontext.RequestID(ctx),
				)
				m.recordExceeded(ctx, route, keyType)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) recordExceeded(ctx context.Context, route string, keyType models.KeyType) {
	if m.auditor == nil {
		return
	}
	err := m.auditor.Emit(ctx, audit.Event{
		Action:   string(audit.EventRateLimitExceeded),
		Subject:  route,
		Decision: string(keyType),
	})
	if err != nil {
		m.logger.WarnContext(ctx, "failed to record rate limit rejection",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func callerKey(ctx context.Context) (models.KeyType, string) {
	if email := requestcontext.Email(ctx); email != "" {
		return models.KeyTypeUser, email
	}
	ip := requestcontext.ClientIP(ctx)
	if ip == "" {
		ip = "unknown"
	}
	return models.KeyTypeIP, ip
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
