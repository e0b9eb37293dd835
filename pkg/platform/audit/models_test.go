package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventWinnerDeclared.Category())
	assert.Equal(t, CategorySecurity, EventAccessDenied.Category())
	assert.Equal(t, CategoryOperations, EventAccountCreated.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("something_new").Category())
}

func TestQueryNormalize(t *testing.T) {
	q := Query{}
	q.Normalize()
	assert.Equal(t, DefaultQueryLimit, q.Limit)

	q = Query{Limit: 10_000}
	q.Normalize()
	assert.Equal(t, MaxQueryLimit, q.Limit)
}

func TestQueryMatches(t *testing.T) {
	e := Event{Action: "role_changed", Actor: "admin@x.com", Category: CategoryCompliance}

	assert.True(t, Query{}.Matches(e))
	assert.True(t, Query{Action: "role_changed", Actor: "admin@x.com"}.Matches(e))
	assert.False(t, Query{Actor: "other@x.com"}.Matches(e))
	assert.False(t, Query{Category: CategorySecurity}.Matches(e))
}
