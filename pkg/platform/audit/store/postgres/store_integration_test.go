//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/testutil/containers"
)

func TestStoreAppendAndListRecent(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := New(pg.Pool)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, audit.Event{
		Action: string(audit.EventRoleChanged), Actor: "admin@x.com", Subject: "a@x.com",
		Decision: "creator", Timestamp: base,
	}))
	require.NoError(t, store.Append(ctx, audit.Event{
		Action: string(audit.EventAccessDenied), Actor: "a@x.com", Reason: "role_mismatch",
		Timestamp: base.Add(time.Minute),
	}))

	all, err := store.ListRecent(ctx, audit.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, string(audit.EventAccessDenied), all[0].Action)
	assert.Equal(t, audit.CategorySecurity, all[0].Category)

	compliance, err := store.ListRecent(ctx, audit.Query{Category: audit.CategoryCompliance})
	require.NoError(t, err)
	require.Len(t, compliance, 1)
	assert.Equal(t, "a@x.com", compliance[0].Subject)
	assert.True(t, compliance[0].Timestamp.Equal(base))
}
