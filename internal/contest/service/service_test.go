package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ParticipantChecker,WinCounter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	accountService "contesthub/internal/account/service"
	accountStore "contesthub/internal/account/store"
	"contesthub/internal/contest/models"
	"contesthub/internal/contest/service/mocks"
	contestStore "contesthub/internal/contest/store"
	"contesthub/internal/platform/logger"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/audit/publisher"
	auditmemory "contesthub/pkg/platform/audit/store/memory"
	"contesthub/pkg/platform/tx"
	"contesthub/pkg/requestcontext"
)

type ContestServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	participants *mocks.MockParticipantChecker
	accounts     *accountStore.InMemoryStore
	contests     *contestStore.InMemoryStore
	events       *auditmemory.InMemoryStore
	svc          *Service
	now          time.Time
}

func TestContestServiceSuite(t *testing.T) {
	suite.Run(t, new(ContestServiceSuite))
}

func (s *ContestServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.participants = mocks.NewMockParticipantChecker(s.ctrl)
	s.accounts = accountStore.NewInMemory()
	s.contests = contestStore.NewInMemory()
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	accounts := accountService.New(s.accounts, accountService.WithLogger(logger.Discard()))
	s.events = auditmemory.NewInMemoryStore()
	s.svc = New(s.contests, tx.NewLocalRunner(), accounts, s.accounts, s.participants,
		WithLogger(logger.Discard()),
		WithAuditor(publisher.NewPublisher(s.events)),
	)

	s.signIn("maker@x.com", id.RoleCreator)
	s.signIn("ada@x.com", id.RoleUser)
	s.signIn("boss@x.com", id.RoleAdmin)
}

func (s *ContestServiceSuite) ctx(at time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), at)
}

func (s *ContestServiceSuite) signIn(email string, role id.Role) {
	accounts := accountService.New(s.accounts, accountService.WithLogger(logger.Discard()))
	_, _, err := accounts.SignIn(s.ctx(s.now), email, "", "")
	s.Require().NoError(err)
	s.Require().NoError(s.accounts.SetRole(context.Background(), email, role))
}

func (s *ContestServiceSuite) draft() models.Draft {
	return models.Draft{
		Name:        "Logo Sprint",
		Category:    "Design",
		EntryFee:    500,
		PrizeAmount: 10000,
		Deadline:    s.now.Add(72 * time.Hour),
	}
}

func (s *ContestServiceSuite) createApproved() *models.Contest {
	c, err := s.svc.Create(s.ctx(s.now), "maker@x.com", s.draft())
	s.Require().NoError(err)
	s.Require().NoError(s.svc.SetStatus(s.ctx(s.now), c.ID, "approved"))
	return c
}

func (s *ContestServiceSuite) TestCreate() {
	s.Run("creator creates pending contest", func() {
		c, err := s.svc.Create(s.ctx(s.now), "maker@x.com", s.draft())
		s.Require().NoError(err)
		s.Equal(models.StatusPending, c.Status)
		s.Equal("design", c.Category)
		s.Zero(c.Participants)
	})
	s.Run("plain user is forbidden", func() {
		_, err := s.svc.Create(s.ctx(s.now), "ada@x.com", s.draft())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
	s.Run("past deadline rejected", func() {
		d := s.draft()
		d.Deadline = s.now.Add(-time.Hour)
		_, err := s.svc.Create(s.ctx(s.now), "maker@x.com", d)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ContestServiceSuite) TestListApprovedHidesPending() {
	approved := s.createApproved()
	_, err := s.svc.Create(s.ctx(s.now), "maker@x.com", s.draft())
	s.Require().NoError(err)

	out, err := s.svc.ListApproved(s.ctx(s.now), models.Filter{Category: "DESIGN", Search: "logo"})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(approved.ID, out[0].ID)

	out, err = s.svc.ListApproved(s.ctx(s.now), models.Filter{Category: "music"})
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *ContestServiceSuite) TestUpdateOnlyByCreatorWhilePending() {
	c, err := s.svc.Create(s.ctx(s.now), "maker@x.com", s.draft())
	s.Require().NoError(err)
	name := "Poster Sprint"

	_, err = s.svc.Update(s.ctx(s.now), c.ID, "ada@x.com", models.Changes{Name: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	updated, err := s.svc.Update(s.ctx(s.now), c.ID, "maker@x.com", models.Changes{Name: &name})
	s.Require().NoError(err)
	s.Equal("Poster Sprint", updated.Name)

	s.Require().NoError(s.svc.SetStatus(s.ctx(s.now), c.ID, "approved"))
	_, err = s.svc.Update(s.ctx(s.now), c.ID, "maker@x.com", models.Changes{Name: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ContestServiceSuite) TestDelete() {
	approved := s.createApproved()
	s.True(dErrors.HasCode(s.svc.Delete(s.ctx(s.now), approved.ID, "maker@x.com"), dErrors.CodeConflict))
	s.True(dErrors.HasCode(s.svc.Delete(s.ctx(s.now), approved.ID, "ada@x.com"), dErrors.CodeForbidden))
	s.NoError(s.svc.Delete(s.ctx(s.now), approved.ID, "boss@x.com"))
	_, err := s.svc.Get(s.ctx(s.now), approved.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ContestServiceSuite) TestSetStatusRejectsUnknownStatus() {
	c := s.createApproved()
	err := s.svc.SetStatus(s.ctx(s.now), c.ID, "completed")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ContestServiceSuite) TestDeclareWinner() {
	c := s.createApproved()
	after := c.Deadline.Add(time.Minute)

	s.Run("before deadline", func() {
		_, err := s.svc.DeclareWinner(s.ctx(s.now), c.ID, "maker@x.com", "ada@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
	s.Run("not the creator", func() {
		_, err := s.svc.DeclareWinner(s.ctx(after), c.ID, "boss@x.com", "ada@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
	s.Run("winner not registered", func() {
		s.participants.EXPECT().IsRegistered(gomock.Any(), "ada@x.com", c.ID).Return(false, nil)
		_, err := s.svc.DeclareWinner(s.ctx(after), c.ID, "maker@x.com", "ada@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
	s.Run("declares once", func() {
		s.participants.EXPECT().IsRegistered(gomock.Any(), "ada@x.com", c.ID).Return(true, nil)
		done, err := s.svc.DeclareWinner(s.ctx(after), c.ID, "maker@x.com", "Ada@X.com")
		s.Require().NoError(err)
		s.Equal(models.StatusCompleted, done.Status)
		s.Equal("ada@x.com", done.WinnerEmail)

		ada, err := s.accounts.FindByEmail(context.Background(), "ada@x.com")
		s.Require().NoError(err)
		s.Equal(1, ada.TotalWon)

		_, err = s.svc.DeclareWinner(s.ctx(after), c.ID, "maker@x.com", "ada@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		declared, err := s.events.ListRecent(context.Background(), audit.Query{Action: string(audit.EventWinnerDeclared)})
		s.Require().NoError(err)
		s.Require().Len(declared, 1)
		s.Equal("maker@x.com", declared[0].Actor)
		s.Equal("ada@x.com", declared[0].Subject)
		s.Equal(c.ID.String(), declared[0].ContestID)
	})
}

func (s *ContestServiceSuite) TestDeclareWinnerRequiresApprovedContest() {
	pending, err := s.svc.Create(s.ctx(s.now), "maker@x.com", s.draft())
	s.Require().NoError(err)
	rejected := s.createApproved()
	s.Require().NoError(s.svc.SetStatus(s.ctx(s.now), rejected.ID, "rejected"))
	after := s.now.Add(73 * time.Hour)

	for name, c := range map[string]*models.Contest{"pending": pending, "rejected": rejected} {
		s.Run(name, func() {
			_, err := s.svc.DeclareWinner(s.ctx(after), c.ID, "maker@x.com", "ada@x.com")
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))

			stored, err := s.svc.Get(s.ctx(after), c.ID)
			s.Require().NoError(err)
			s.False(stored.HasWinner())
			s.NotEqual(models.StatusCompleted, stored.Status)

			ada, err := s.accounts.FindByEmail(context.Background(), "ada@x.com")
			s.Require().NoError(err)
			s.Zero(ada.TotalWon)
		})
	}
}

func (s *ContestServiceSuite) TestReviewIsAudited() {
	c := s.createApproved()

	reviews, err := s.events.ListRecent(context.Background(), audit.Query{Action: string(audit.EventContestReviewed)})
	s.Require().NoError(err)
	s.Require().Len(reviews, 1)
	s.Equal(c.ID.String(), reviews[0].ContestID)
	s.Equal("approved", reviews[0].Decision)
	s.Equal(audit.CategoryCompliance, reviews[0].Category)
}

func (s *ContestServiceSuite) TestDeclareWinnerRollsBackWhenWinCounterFails() {
	wins := mocks.NewMockWinCounter(s.ctrl)
	accounts := accountService.New(s.accounts, accountService.WithLogger(logger.Discard()))
	svc := New(s.contests, tx.NewLocalRunner(), accounts, wins, s.participants, WithLogger(logger.Discard()))

	c := s.createApproved()
	after := c.Deadline.Add(time.Minute)
	s.participants.EXPECT().IsRegistered(gomock.Any(), "ada@x.com", c.ID).Return(true, nil)
	wins.EXPECT().IncrementWins(gomock.Any(), "ada@x.com").Return(errors.New("disk full"))

	_, err := svc.DeclareWinner(s.ctx(after), c.ID, "maker@x.com", "ada@x.com")
	s.True(dErrors.HasCode(err, dErrors.CodeStoreFailure))

	stored, err := s.contests.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.False(stored.HasWinner())
	s.Equal(models.StatusApproved, stored.Status)
}
