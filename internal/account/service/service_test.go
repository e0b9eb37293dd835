package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"contesthub/internal/account/models"
	"contesthub/internal/account/service/mocks"
	"contesthub/internal/platform/logger"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/audit/publisher"
	auditmemory "contesthub/pkg/platform/audit/store/memory"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/requestcontext"
)

type AccountServiceSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *mocks.MockStore
	svc   *Service
	ctx   context.Context
	now   time.Time
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.svc = New(s.store, WithLogger(logger.Discard()))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *AccountServiceSuite) TestSignInCreatesAccountOnFirstVisit() {
	s.store.EXPECT().FindByEmail(gomock.Any(), "ada@x.com").Return(nil, sentinel.ErrNotFound)
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a *models.Account) error {
			s.Equal("ada@x.com", a.Email)
			s.Equal(id.RoleUser, a.Role)
			s.Equal(s.now, a.CreatedAt)
			s.Equal(s.now, a.LastLoginAt)
			return nil
		})

	account, created, err := s.svc.SignIn(s.ctx, "  Ada@X.com ", "", "")
	s.Require().NoError(err)
	s.True(created)
	s.Equal("Ada", account.Name)
}

func (s *AccountServiceSuite) TestSignInTouchesExistingAccount() {
	existing := &models.Account{Email: "ada@x.com", Role: id.RoleCreator}
	s.store.EXPECT().FindByEmail(gomock.Any(), "ada@x.com").Return(existing, nil)
	s.store.EXPECT().TouchLogin(gomock.Any(), "ada@x.com", s.now).Return(nil)

	account, created, err := s.svc.SignIn(s.ctx, "ada@x.com", "Ada", "")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(id.RoleCreator, account.Role)
	s.Equal(s.now, account.LastLoginAt)
}

func (s *AccountServiceSuite) TestSignInRecoversFromConcurrentCreate() {
	existing := &models.Account{Email: "ada@x.com", Role: id.RoleUser}
	gomock.InOrder(
		s.store.EXPECT().FindByEmail(gomock.Any(), "ada@x.com").Return(nil, sentinel.ErrNotFound),
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict),
		s.store.EXPECT().FindByEmail(gomock.Any(), "ada@x.com").Return(existing, nil),
		s.store.EXPECT().TouchLogin(gomock.Any(), "ada@x.com", s.now).Return(nil),
	)

	_, created, err := s.svc.SignIn(s.ctx, "ada@x.com", "Ada", "")
	s.Require().NoError(err)
	s.False(created)
}

func (s *AccountServiceSuite) TestSignInRejectsInvalidEmail() {
	_, _, err := s.svc.SignIn(s.ctx, "not-an-email", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *AccountServiceSuite) TestGetRoleDefaultsToUserForUnknownAccount() {
	s.store.EXPECT().FindByEmail(gomock.Any(), "new@x.com").Return(nil, sentinel.ErrNotFound)

	role, err := s.svc.GetRole(s.ctx, "new@x.com")
	s.Require().NoError(err)
	s.Equal(id.RoleUser, role)
}

func (s *AccountServiceSuite) TestGetMapsStoreErrors() {
	s.store.EXPECT().FindByEmail(gomock.Any(), "ghost@x.com").Return(nil, sentinel.ErrNotFound)
	_, err := s.svc.Get(s.ctx, "ghost@x.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.store.EXPECT().FindByEmail(gomock.Any(), "ada@x.com").Return(nil, errors.New("connection reset"))
	_, err = s.svc.Get(s.ctx, "ada@x.com")
	s.True(dErrors.HasCode(err, dErrors.CodeStoreFailure))
}

func (s *AccountServiceSuite) TestUpdateProfileValidatesBeforeStore() {
	_, err := s.svc.UpdateProfile(s.ctx, "ada@x.com", models.ProfileUpdate{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AccountServiceSuite) TestSetRole() {
	s.Run("rejects unknown role", func() {
		err := s.svc.SetRole(s.ctx, "admin@x.com", "bob@x.com", "overlord")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
	s.Run("admin cannot demote self", func() {
		err := s.svc.SetRole(s.ctx, "admin@x.com", "admin@x.com", "user")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
	s.Run("persists valid role", func() {
		s.store.EXPECT().SetRole(gomock.Any(), "bob@x.com", id.RoleCreator).Return(nil)
		s.NoError(s.svc.SetRole(s.ctx, "admin@x.com", "Bob@x.com", "creator"))
	})
	s.Run("missing account", func() {
		s.store.EXPECT().SetRole(gomock.Any(), "ghost@x.com", id.RoleCreator).Return(sentinel.ErrNotFound)
		err := s.svc.SetRole(s.ctx, "admin@x.com", "ghost@x.com", "creator")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AccountServiceSuite) TestSetRoleIsAudited() {
	events := auditmemory.NewInMemoryStore()
	svc := New(s.store, WithLogger(logger.Discard()), WithAuditor(publisher.NewPublisher(events)))

	s.store.EXPECT().SetRole(gomock.Any(), "bob@x.com", id.RoleCreator).Return(nil)
	s.Require().NoError(svc.SetRole(s.ctx, "admin@x.com", "bob@x.com", "creator"))

	got, err := events.ListRecent(s.ctx, audit.Query{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(string(audit.EventRoleChanged), got[0].Action)
	s.Equal("admin@x.com", got[0].Actor)
	s.Equal("bob@x.com", got[0].Subject)
	s.Equal("creator", got[0].Decision)
	s.Equal(s.now, got[0].Timestamp)
}

func (s *AccountServiceSuite) TestLeaderboardClampsLimit() {
	s.store.EXPECT().TopByWins(gomock.Any(), defaultLeaderboardLimit).Return(nil, nil)
	_, err := s.svc.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)

	s.store.EXPECT().TopByWins(gomock.Any(), maxLeaderboardLimit).Return(nil, nil)
	_, err = s.svc.Leaderboard(s.ctx, 5000)
	s.Require().NoError(err)
}
