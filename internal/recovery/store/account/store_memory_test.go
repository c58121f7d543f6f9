package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
	"ffwpu/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store   *InMemoryStore
	ctx     context.Context
	account *models.AccountRecord
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.account = &models.AccountRecord{
		ID:       id.NewAccountID(),
		MemberID: id.NewMemberID(),
		Email:    "Juan@Example.org",
		Status:   models.AccountStatusActive,
	}
	s.Require().NoError(s.store.Save(s.ctx, s.account))
}

func (s *InMemoryStoreSuite) attempt(outcome models.AttemptOutcome, at time.Time) *models.AttemptRecord {
	return &models.AttemptRecord{
		ID:        id.NewAttemptID(),
		AccountID: s.account.ID,
		Timestamp: at,
		Outcome:   outcome,
		Reason:    string(outcome),
	}
}

func (s *InMemoryStoreSuite) TestSave() {
	s.Run("email is stored lower-cased", func() {
		got, err := s.store.FindByMemberID(s.ctx, s.account.MemberID)
		s.Require().NoError(err)
		s.Equal("juan@example.org", got.Email)
	})

	s.Run("second account for the same member conflicts", func() {
		err := s.store.Save(s.ctx, &models.AccountRecord{
			ID:       id.NewAccountID(),
			MemberID: s.account.MemberID,
			Status:   models.AccountStatusActive,
		})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *InMemoryStoreSuite) TestFind() {
	s.Run("unknown member", func() {
		_, err := s.store.FindByMemberID(s.ctx, id.NewMemberID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown account", func() {
		_, err := s.store.FindByID(s.ctx, id.NewAccountID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned records are copies", func() {
		got, err := s.store.FindByID(s.ctx, s.account.ID)
		s.Require().NoError(err)
		got.Status = models.AccountStatusDeleted

		again, err := s.store.FindByID(s.ctx, s.account.ID)
		s.Require().NoError(err)
		s.Equal(models.AccountStatusActive, again.Status)
	})
}

func (s *InMemoryStoreSuite) TestSetRecoveryTokenReplacesPrevious() {
	now := time.Now().UTC()
	first := models.RecoveryToken{Hash: "first", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	second := models.RecoveryToken{Hash: "second", IssuedAt: now.Add(time.Minute), ExpiresAt: now.Add(2 * time.Hour)}

	s.Require().NoError(s.store.SetRecoveryToken(s.ctx, s.account.ID, first))
	s.Require().NoError(s.store.SetRecoveryToken(s.ctx, s.account.ID, second))

	got, err := s.store.FindByID(s.ctx, s.account.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.RecoveryToken)
	s.Equal("second", got.RecoveryToken.Hash)

	s.ErrorIs(s.store.SetRecoveryToken(s.ctx, id.NewAccountID(), first), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestAttemptsAreOldestFirst() {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.AppendAttempt(s.ctx, s.attempt(models.AttemptOutcomeFailure, base)))
	s.Require().NoError(s.store.AppendAttempt(s.ctx, s.attempt(models.AttemptOutcomeSuccess, base.Add(time.Minute))))

	got, err := s.store.ListAttempts(s.ctx, s.account.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(models.AttemptOutcomeFailure, got[0].Outcome)
	s.Equal(models.AttemptOutcomeSuccess, got[1].Outcome)

	s.ErrorIs(s.store.AppendAttempt(s.ctx, &models.AttemptRecord{AccountID: id.NewAccountID()}), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestRunInTx() {
	now := time.Now().UTC()
	token := models.RecoveryToken{Hash: "h", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	s.Run("rollback discards staged writes", func() {
		boom := errors.New("boom")
		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			s.Require().NoError(s.store.SetRecoveryToken(ctx, s.account.ID, token))
			s.Require().NoError(s.store.AppendAttempt(ctx, s.attempt(models.AttemptOutcomeSuccess, now)))
			return boom
		})
		s.ErrorIs(err, boom)

		got, err := s.store.FindByID(s.ctx, s.account.ID)
		s.Require().NoError(err)
		s.Nil(got.RecoveryToken)
		log, err := s.store.ListAttempts(s.ctx, s.account.ID)
		s.Require().NoError(err)
		s.Empty(log)
	})

	s.Run("commit applies token and attempt together", func() {
		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.store.SetRecoveryToken(ctx, s.account.ID, token); err != nil {
				return err
			}
			return s.store.AppendAttempt(ctx, s.attempt(models.AttemptOutcomeSuccess, now))
		})
		s.Require().NoError(err)

		got, err := s.store.FindByID(s.ctx, s.account.ID)
		s.Require().NoError(err)
		s.Require().NotNil(got.RecoveryToken)
		s.Equal("h", got.RecoveryToken.Hash)
		log, err := s.store.ListAttempts(s.ctx, s.account.ID)
		s.Require().NoError(err)
		s.Len(log, 1)
	})

	s.Run("cancelled context aborts", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		called := false
		err := s.store.RunInTx(ctx, func(context.Context) error {
			called = true
			return nil
		})
		s.ErrorIs(err, context.Canceled)
		s.False(called)
	})
}
