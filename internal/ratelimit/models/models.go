package models

import (
	"strings"
	"time"
)

// KeyType is the caller dimension a limit is counted against.
type KeyType string

const (
	KeyTypeUser KeyType = "user"
	KeyTypeIP   KeyType = "ip"
)

// Result is the outcome of one fixed-window check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, set when denied
	Degraded   bool
}

// NewResult derives the public view of a window that has counted count hits.
func NewResult(count, limit int, resetAt, now time.Time) *Result {
	r := &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !r.Allowed {
		r.RetryAfter = max(int(resetAt.Sub(now).Seconds()+0.5), 1)
	}
	return r
}

// WindowStart aligns now to the start of its fixed window.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

// NewKey builds a bucket key for route and caller.
func NewKey(route string, keyType KeyType, identifier string) string {
	return "route:" + SanitizeKeySegment(route) + ":" + string(keyType) + ":" + SanitizeKeySegment(identifier)
}

// SanitizeKeySegment escapes delimiter characters so a caller-controlled
// identifier cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
