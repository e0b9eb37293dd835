package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"contesthub/internal/account/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/platform/tx"
)

// InMemoryStore keeps accounts keyed by email. It backs tests and local runs
// without Postgres.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[string]*models.Account)}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Email]; ok {
		return sentinel.ErrConflict
	}
	clone := *account
	s.accounts[account.Email] = &clone
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *InMemoryStore) TouchLogin(_ context.Context, email string, at time.Time) error {
	return s.mutate(email, func(a *models.Account) { a.LastLoginAt = at })
}

func (s *InMemoryStore) UpdateProfile(_ context.Context, email string, update models.ProfileUpdate) (*models.Account, error) {
	var out models.Account
	err := s.mutate(email, func(a *models.Account) {
		update.Apply(a)
		out = *a
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *InMemoryStore) SetRole(_ context.Context, email string, role id.Role) error {
	return s.mutate(email, func(a *models.Account) { a.Role = role })
}

// IncrementParticipation registers its own undo when run inside a
// tx.LocalRunner unit.
func (s *InMemoryStore) IncrementParticipation(ctx context.Context, email string) error {
	if err := s.mutate(email, func(a *models.Account) { a.TotalParticipated++ }); err != nil {
		return err
	}
	tx.OnRollback(ctx, func() {
		_ = s.mutate(email, func(a *models.Account) { a.TotalParticipated-- })
	})
	return nil
}

func (s *InMemoryStore) IncrementWins(ctx context.Context, email string) error {
	if err := s.mutate(email, func(a *models.Account) { a.TotalWon++ }); err != nil {
		return err
	}
	tx.OnRollback(ctx, func() {
		_ = s.mutate(email, func(a *models.Account) { a.TotalWon-- })
	})
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) TopByWins(ctx context.Context, limit int) ([]*models.Account, error) {
	all, _ := s.List(ctx)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TotalWon != all[j].TotalWon {
			return all[i].TotalWon > all[j].TotalWon
		}
		return all[i].TotalParticipated > all[j].TotalParticipated
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemoryStore) mutate(email string, fn func(*models.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return sentinel.ErrNotFound
	}
	fn(a)
	return nil
}
