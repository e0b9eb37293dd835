package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewResult(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 20, 0, time.UTC)
	reset := now.Add(40 * time.Second)

	allowed := NewResult(3, 5, reset, now)
	assert.True(t, allowed.Allowed)
	assert.Equal(t, 2, allowed.Remaining)
	assert.Zero(t, allowed.RetryAfter)

	denied := NewResult(6, 5, reset, now)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.Equal(t, 40, denied.RetryAfter)
}

func TestNewKeySanitizesIdentifiers(t *testing.T) {
	assert.Equal(t, "route:checkout:user:a@x.com", NewKey("checkout", KeyTypeUser, "a@x.com"))
	assert.Equal(t, "route:confirm:ip:__1", NewKey("confirm", KeyTypeIP, "::1"))
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), WindowStart(now, time.Minute))
}
