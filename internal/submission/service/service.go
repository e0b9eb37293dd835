package service

import (
	"context"
	"encoding/json"
	"log/slog"

	contestModels "contesthub/internal/contest/models"
	"contesthub/internal/submission/models"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/requestcontext"
)

type Store interface {
	Insert(ctx context.Context, sub *models.Submission) error
	ListByContest(ctx context.Context, contestID id.ContestID) ([]*models.Submission, error)
	ListByCreator(ctx context.Context, email string) ([]*models.Submission, error)
}

// Contests resolves the contest a submission targets.
type Contests interface {
	Get(ctx context.Context, contestID id.ContestID) (*contestModels.Contest, error)
}

type Registrations interface {
	IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error)
}

type Roles interface {
	GetRole(ctx context.Context, email string) (id.Role, error)
}

// Service accepts contest entries from paid participants.
type Service struct {
	store         Store
	contests      Contests
	registrations Registrations
	roles         Roles
	logger        *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, contests Contests, registrations Registrations, roles Roles, opts ...Option) *Service {
	s := &Service{
		store:         store,
		contests:      contests,
		registrations: registrations,
		roles:         roles,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends an entry. The caller must hold a paid registration and the
// contest deadline must not have passed.
func (s *Service) Submit(ctx context.Context, email string, contestID id.ContestID, payload json.RawMessage) (*models.Submission, error) {
	if err := models.ValidatePayload(payload); err != nil {
		return nil, err
	}
	contest, err := s.contests.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if contest.Status != contestModels.StatusApproved {
		return nil, dErrors.New(dErrors.CodeConflict, "contest is not accepting submissions")
	}
	if contest.DeadlinePassed(now) {
		return nil, dErrors.New(dErrors.CodeConflict, "contest deadline has passed")
	}

	registered, err := s.registrations.IsRegistered(ctx, email, contestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to check registration")
	}
	if !registered {
		return nil, dErrors.New(dErrors.CodeForbidden, "registration required before submitting")
	}

	sub := models.NewSubmission(contestID, email, payload, now)
	if err := s.store.Insert(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to store submission")
	}
	s.logger.InfoContext(ctx, "submission stored",
		"request_id", requestcontext.RequestID(ctx),
		"contest_id", contestID.String(),
		"submission_id", sub.ID.String(),
	)
	return sub, nil
}

// ListByContest returns entries for the contest creator or an admin.
func (s *Service) ListByContest(ctx context.Context, contestID id.ContestID, requester string) ([]*models.Submission, error) {
	contest, err := s.contests.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.OwnedBy(requester) {
		role, err := s.roles.GetRole(ctx, requester)
		if err != nil {
			return nil, err
		}
		if role != id.RoleAdmin {
			return nil, dErrors.New(dErrors.CodeForbidden, "only the contest creator can view submissions")
		}
	}
	out, err := s.store.ListByContest(ctx, contestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list submissions")
	}
	return out, nil
}

func (s *Service) ListMine(ctx context.Context, email string) ([]*models.Submission, error) {
	out, err := s.store.ListByCreator(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list submissions")
	}
	return out, nil
}
