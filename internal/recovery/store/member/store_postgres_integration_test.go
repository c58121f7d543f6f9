//go:build integration

package member_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ffwpu/internal/recovery/identity"
	"ffwpu/internal/recovery/models"
	"ffwpu/internal/recovery/store/member"
	id "ffwpu/pkg/domain"
	"ffwpu/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *member.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = member.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "recovery_outbox", "recovery_attempts", "accounts", "members"))
}

func (s *PostgresStoreSuite) save(name string) *models.MemberRecord {
	dob := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)
	m := &models.MemberRecord{ID: id.NewMemberID(), FullName: name, DateOfBirth: &dob, Church: "Seoul", Region: "Korea"}
	s.Require().NoError(s.store.Save(context.Background(), m))
	return m
}

func (s *PostgresStoreSuite) TestNormalizedColumnMatches() {
	ctx := context.Background()
	exact := s.save("  JUAN   Dela Cruz ")
	boundary := s.save("Juan Miguel Dela Cruz")
	s.save("Pedro Dela Cruz")

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("Juan", "", "Dela Cruz"))
	s.Require().NoError(err)

	ids := map[id.MemberID]bool{}
	for _, m := range got {
		ids[m.ID] = true
	}
	s.Len(got, 2)
	s.True(ids[exact.ID])
	s.True(ids[boundary.ID])
}

func (s *PostgresStoreSuite) TestBirthDateRoundTrips() {
	ctx := context.Background()
	m := s.save("Maria Santos")

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("Maria", "", "Santos"))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Require().NotNil(got[0].DateOfBirth)
	s.Equal(identity.DateOf(*m.DateOfBirth), identity.DateOf(*got[0].DateOfBirth))
	s.Equal("Seoul", got[0].Church)
}

func (s *PostgresStoreSuite) TestLikeMetacharactersAreLiteral() {
	ctx := context.Background()
	s.save("Juan Dela Cruz")

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("%", "", "%"))
	s.Require().NoError(err)
	s.Empty(got)

	got, err = s.store.FindCandidates(ctx, identity.NewNameQuery("_uan", "", "_ruz"))
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresStoreSuite) TestOverflowingCandidateSetIsReported() {
	ctx := context.Background()
	for i := 0; i < identity.MaxCandidates; i++ {
		s.save(fmt.Sprintf("Juan Middle%02d Dela Cruz", i))
	}
	// Same birth date as every row above, so a truncated set could
	// otherwise confirm one of them.
	s.save("Juan Zed Dela Cruz")
	s.save("Juan Zed Dela Cruz")

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("Juan", "", "Dela Cruz"))
	s.Require().ErrorIs(err, identity.ErrTooManyCandidates)
	s.Nil(got)
}

func (s *PostgresStoreSuite) TestCandidateSetAtLimitIsReturned() {
	ctx := context.Background()
	for i := 0; i < identity.MaxCandidates; i++ {
		s.save(fmt.Sprintf("Juan Middle%02d Dela Cruz", i))
	}

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("Juan", "", "Dela Cruz"))
	s.Require().NoError(err)
	s.Len(got, identity.MaxCandidates)
}

func (s *PostgresStoreSuite) TestFirstAndLastNameDoNotOverlap() {
	ctx := context.Background()
	s.save("Ana")
	luna := s.save("Ana Luna")

	got, err := s.store.FindCandidates(ctx, identity.NewNameQuery("Ana", "", "na"))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(luna.ID, got[0].ID)
}
