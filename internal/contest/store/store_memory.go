package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"contesthub/internal/contest/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/platform/tx"
)

// InMemoryStore keeps contests in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	contests map[id.ContestID]*models.Contest
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{contests: make(map[id.ContestID]*models.Contest)}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Contest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contests[c.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *c
	s.contests[c.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, contestID id.ContestID) (*models.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contests[contestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *InMemoryStore) ListApproved(_ context.Context, f models.Filter) ([]*models.Contest, error) {
	out := s.collect(func(c *models.Contest) bool {
		return c.Status == models.StatusApproved && f.Matches(c)
	})
	sortNewestFirst(out)
	return page(out, f.Offset, f.Limit), nil
}

func (s *InMemoryStore) Popular(_ context.Context, limit int) ([]*models.Contest, error) {
	out := s.collect(func(c *models.Contest) bool { return c.Status == models.StatusApproved })
	sortNewestFirst(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Participants > out[j].Participants })
	return page(out, 0, limit), nil
}

func (s *InMemoryStore) ListByCreator(_ context.Context, email string) ([]*models.Contest, error) {
	out := s.collect(func(c *models.Contest) bool { return c.CreatorEmail == email })
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Contest, error) {
	out := s.collect(func(*models.Contest) bool { return true })
	sortNewestFirst(out)
	return out, nil
}

// Update replaces the editable fields of a contest that is still pending.
func (s *InMemoryStore) Update(_ context.Context, c *models.Contest) error {
	return s.mutate(c.ID, func(cur *models.Contest) error {
		if cur.Status != models.StatusPending {
			return sentinel.ErrInvalidState
		}
		participants, status, created := cur.Participants, cur.Status, cur.CreatedAt
		*cur = *c
		cur.Participants, cur.Status, cur.CreatedAt = participants, status, created
		return nil
	})
}

func (s *InMemoryStore) Delete(_ context.Context, contestID id.ContestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contests[contestID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.contests, contestID)
	return nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, contestID id.ContestID, status models.Status, at time.Time) error {
	return s.mutate(contestID, func(c *models.Contest) error {
		if c.Status == models.StatusCompleted {
			return sentinel.ErrInvalidState
		}
		c.Status = status
		c.UpdatedAt = at
		return nil
	})
}

// SetWinner records the winner once; a second call fails with ErrInvalidState.
func (s *InMemoryStore) SetWinner(ctx context.Context, contestID id.ContestID, email, name string, at time.Time) error {
	var prev models.Contest
	err := s.mutate(contestID, func(c *models.Contest) error {
		if c.HasWinner() {
			return sentinel.ErrInvalidState
		}
		prev = *c
		c.WinnerEmail, c.WinnerName = email, name
		c.Status = models.StatusCompleted
		c.UpdatedAt = at
		return nil
	})
	if err != nil {
		return err
	}
	tx.OnRollback(ctx, func() {
		_ = s.mutate(contestID, func(c *models.Contest) error {
			c.WinnerEmail, c.WinnerName = "", ""
			c.Status, c.UpdatedAt = prev.Status, prev.UpdatedAt
			return nil
		})
	})
	return nil
}

func (s *InMemoryStore) IncrementParticipants(ctx context.Context, contestID id.ContestID) error {
	err := s.mutate(contestID, func(c *models.Contest) error {
		c.Participants++
		return nil
	})
	if err != nil {
		return err
	}
	tx.OnRollback(ctx, func() {
		_ = s.mutate(contestID, func(c *models.Contest) error {
			c.Participants--
			return nil
		})
	})
	return nil
}

func (s *InMemoryStore) mutate(contestID id.ContestID, fn func(*models.Contest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contests[contestID]
	if !ok {
		return sentinel.ErrNotFound
	}
	return fn(c)
}

func (s *InMemoryStore) collect(keep func(*models.Contest) bool) []*models.Contest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Contest, 0)
	for _, c := range s.contests {
		if keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out
}

func sortNewestFirst(cs []*models.Contest) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}

func page(cs []*models.Contest, offset, limit int) []*models.Contest {
	if offset >= len(cs) {
		return []*models.Contest{}
	}
	cs = cs[offset:]
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}
