package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contesthub/internal/platform/logger"
	"contesthub/internal/ratelimit/models"
	"contesthub/internal/ratelimit/store/bucket"
	"contesthub/pkg/platform/circuit"
)

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Allow(_ context.Context, _ string, limit int, _ time.Duration) (*models.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Result{Allowed: true, Limit: limit, Remaining: limit - 1}, nil
}

func TestLimiterUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &flakyStore{}
	l := New(primary, bucket.New(), WithLogger(logger.Discard()))

	result, err := l.Allow(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, primary.calls)
}

func TestLimiterFallsBackOnPrimaryError(t *testing.T) {
	primary := &flakyStore{err: errors.New("connection refused")}
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))
	l := New(primary, bucket.New(), WithLogger(logger.Discard()), WithBreaker(breaker))
	ctx := context.Background()

	result, err := l.Allow(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, 4, result.Remaining)

	_, _ = l.Allow(ctx, "k", 5, time.Minute)
	assert.True(t, breaker.IsOpen())

	// Recovery needs consecutive successes before the primary result is trusted.
	primary.err = nil
	result, err = l.Allow(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	result, err = l.Allow(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.False(t, breaker.IsOpen())
}

func TestLimiterWithoutPrimary(t *testing.T) {
	l := New(nil, bucket.New())
	result, err := l.Allow(context.Background(), "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Degraded)
}
