package store

import (
	"context"
	"sort"
	"sync"

	"contesthub/internal/registration/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/platform/tx"
)

// InMemoryStore enforces transaction-id uniqueness the same way the
// registrations_transaction_id_key constraint does in Postgres.
type InMemoryStore struct {
	mu            sync.RWMutex
	byTransaction map[string]*models.Registration
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byTransaction: make(map[string]*models.Registration)}
}

func (s *InMemoryStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.byTransaction[transactionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *reg
	return &clone, nil
}

// Insert is the atomicity boundary for duplicate confirmations: the check
// and the write happen under one lock.
func (s *InMemoryStore) Insert(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	if _, ok := s.byTransaction[reg.TransactionID]; ok {
		s.mu.Unlock()
		return sentinel.ErrConflict
	}
	clone := *reg
	s.byTransaction[reg.TransactionID] = &clone
	s.mu.Unlock()

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byTransaction, reg.TransactionID)
	})
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, email string) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Registration, 0)
	for _, reg := range s.byTransaction {
		if reg.UserEmail == email {
			clone := *reg
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (s *InMemoryStore) IsRegistered(_ context.Context, email string, contestID id.ContestID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.byTransaction {
		if reg.UserEmail == email && reg.ContestID == contestID && reg.PaymentStatus == models.PaymentStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

// Count reports the number of stored registrations.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byTransaction)
}
