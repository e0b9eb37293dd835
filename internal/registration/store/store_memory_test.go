package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contesthub/internal/registration/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/platform/tx"
)

func TestInMemoryInsertIsIdempotentPerTransaction(t *testing.T) {
	store := NewInMemory()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Insert(context.Background(), newRegistration("r1", "tx1", now))
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, sentinel.ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 1, store.Count())
}

func TestInMemoryInsertUndoneOnRollback(t *testing.T) {
	store := NewInMemory()
	boom := errors.New("boom")

	err := tx.NewLocalRunner().RunInTx(context.Background(), func(txCtx context.Context) error {
		require.NoError(t, store.Insert(txCtx, newRegistration("r1", "tx1", time.Now())))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.FindByTransactionID(context.Background(), "tx1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Zero(t, store.Count())
}

func TestInMemoryListAndIsRegistered(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(ctx, newRegistration("r1", "tx1", now)))
	require.NoError(t, store.Insert(ctx, newRegistration("r2", "tx2", now.Add(time.Hour))))

	regs, err := store.ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "tx2", regs[0].TransactionID)

	empty, err := store.ListByUser(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, empty)

	ok, err := store.IsRegistered(ctx, "a@x.com", "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func newRegistration(regID id.RegistrationID, txID string, now time.Time) *models.Registration {
	return &models.Registration{
		ID:            regID,
		UserEmail:     "a@x.com",
		ContestID:     "c1",
		Name:          "Ada",
		Title:         "Logo Sprint",
		TransactionID: txID,
		SessionID:     "sess-" + txID,
		Amount:        1500,
		PaymentStatus: models.PaymentStatusPaid,
		RegisteredAt:  now,
	}
}
