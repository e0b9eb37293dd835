package store

import (
	"context"
	"sort"
	"sync"

	"contesthub/internal/submission/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu          sync.RWMutex
	submissions []*models.Submission
	ids         map[id.SubmissionID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{ids: make(map[id.SubmissionID]struct{})}
}

func (s *InMemoryStore) Insert(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[sub.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *sub
	s.submissions = append(s.submissions, &clone)
	s.ids[sub.ID] = struct{}{}
	return nil
}

func (s *InMemoryStore) ListByContest(_ context.Context, contestID id.ContestID) ([]*models.Submission, error) {
	return s.filter(func(sub *models.Submission) bool { return sub.ContestID == contestID }), nil
}

func (s *InMemoryStore) ListByCreator(_ context.Context, email string) ([]*models.Submission, error) {
	return s.filter(func(sub *models.Submission) bool { return sub.CreatorEmail == email }), nil
}

func (s *InMemoryStore) filter(keep func(*models.Submission) bool) []*models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Submission, 0)
	for _, sub := range s.submissions {
		if keep(sub) {
			clone := *sub
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}
