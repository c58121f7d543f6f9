package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
	dErrors "ffwpu/pkg/domain-errors"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func member(name string, dob *time.Time) *models.MemberRecord {
	return &models.MemberRecord{ID: id.NewMemberID(), FullName: name, DateOfBirth: dob}
}

type IdentitySuite struct {
	suite.Suite
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) TestNormalizeName() {
	s.Equal("juan dela cruz", NormalizeName("  Juan   DELA\tCruz \n"))
	s.Equal("", NormalizeName("   "))
}

func (s *IdentitySuite) TestNameQuery() {
	s.Run("full name skips empty middle", func() {
		s.Equal("juan dela cruz", NewNameQuery("Juan", "", "Dela Cruz").FullName())
		s.Equal("maria clara santos", NewNameQuery("Maria", " Clara ", "Santos").FullName())
	})

	s.Run("exact canonical match", func() {
		q := NewNameQuery("Juan", "", "Dela Cruz")
		s.True(q.Matches("JUAN  Dela cruz"))
	})

	s.Run("boundary match tolerates extra tokens", func() {
		q := NewNameQuery("Juan", "", "Cruz")
		s.True(q.Matches("Juan Miguel Dela Cruz"))
		s.False(q.Matches("Pedro Dela Cruz"))
		s.False(q.Matches("Juan Dela Cruz Jr"))
	})

	s.Run("first and last name may not overlap", func() {
		q := NewNameQuery("Ana", "", "na")
		s.False(q.Matches("Ana"))
		s.True(q.Matches("Ana Luna"))
		s.False(NewNameQuery("Juan", "", "an").Matches("Juan"))
	})

	s.Run("pattern metacharacters are literal", func() {
		q := NewNameQuery(".*", "", ".*")
		s.False(q.Matches("Juan Dela Cruz"))
		q = NewNameQuery("J%", "", "_")
		s.False(q.Matches("Juan Dela Cruz"))
	})

	s.Run("missing required part never matches", func() {
		s.False(NewNameQuery("", "", "Cruz").Matches("Cruz"))
	})
}

func (s *IdentitySuite) TestMatchCandidatesDedupes() {
	m := member("Juan Dela Cruz", nil)
	other := member("Maria Santos", nil)
	out := MatchCandidates(NewNameQuery("juan", "", "dela cruz"), []*models.MemberRecord{m, other, m, nil})
	s.Require().Len(out, 1)
	s.Equal(m.ID, out[0].ID)
}

func (s *IdentitySuite) TestEscapeLike() {
	s.Equal(`50\% off\_now\\`, EscapeLike(`50% off_now\`))
	s.Equal("juan", EscapeLike("juan"))
}

func (s *IdentitySuite) TestParseBirthDate() {
	for _, in := range []string{"1990-05-01", "1990-05-01T00:00:00Z", "1990-05-01T10:30:00", " 1990-05-01 "} {
		d, err := ParseBirthDate(in)
		s.Require().NoError(err, in)
		s.Equal(Date{1990, time.May, 1}, d)
	}

	for _, in := range []string{"", "05/01/1990", "1990-13-01", "yesterday", "1990-02-30"} {
		_, err := ParseBirthDate(in)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidDateFormat), in)
	}
}

func (s *IdentitySuite) TestDisambiguate() {
	dob := Date{1990, time.May, 1}

	s.Run("single confirmed candidate", func() {
		m := member("Juan Dela Cruz", date(1990, time.May, 1))
		got, err := Disambiguate([]*models.MemberRecord{m, member("Juan Dela Cruz", date(1985, time.June, 2))}, dob)
		s.Require().NoError(err)
		s.Equal(m.ID, got.ID)
	})

	s.Run("no confirmed candidate is a birth date mismatch", func() {
		_, err := Disambiguate([]*models.MemberRecord{member("Juan Dela Cruz", date(1991, time.May, 1))}, dob)
		s.True(dErrors.HasCode(err, dErrors.CodeBirthDateMismatch))
	})

	s.Run("candidates without a stored date are excluded", func() {
		_, err := Disambiguate([]*models.MemberRecord{member("Juan Dela Cruz", nil)}, dob)
		s.True(dErrors.HasCode(err, dErrors.CodeBirthDateMismatch))
	})

	s.Run("two confirmed candidates fail closed", func() {
		_, err := Disambiguate([]*models.MemberRecord{
			member("Maria Santos", date(1990, time.May, 1)),
			member("Maria Santos", date(1990, time.May, 1)),
		}, dob)
		s.True(dErrors.HasCode(err, dErrors.CodeAmbiguousMatch))
	})

	s.Run("stored timestamps compare by UTC calendar date", func() {
		stored := time.Date(1990, time.May, 1, 23, 0, 0, 0, time.UTC)
		m := &models.MemberRecord{ID: id.NewMemberID(), FullName: "Juan Dela Cruz", DateOfBirth: &stored}
		_, err := Disambiguate([]*models.MemberRecord{m}, dob)
		s.NoError(err)
	})
}

func TestNormalizeNameProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "name")
		out := NormalizeName(in)

		if NormalizeName(out) != out {
			t.Fatalf("not idempotent: %q -> %q", in, out)
		}
		if strings.Contains(out, "  ") {
			t.Fatalf("whitespace run survived: %q", out)
		}
		if out != strings.TrimSpace(out) {
			t.Fatalf("not trimmed: %q", out)
		}
	})
}

func TestExactNameAlwaysMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z%_.*\\]{1,10}`)
		first := word.Draw(t, "first")
		middle := rapid.OneOf(rapid.Just(""), word).Draw(t, "middle")
		last := word.Draw(t, "last")

		registry := strings.Join([]string{"  " + strings.ToUpper(first), middle, last + " "}, "   ")
		if !NewNameQuery(first, middle, last).Matches(registry) {
			t.Fatalf("%q %q %q should match %q", first, middle, last, registry)
		}
	})
}

func TestBoundaryMatchNeedsRoomForBothParts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-c]{1,4}`)
		first := word.Draw(t, "first")
		last := word.Draw(t, "last")
		registry := rapid.StringMatching(`[a-c ]{0,10}`).Draw(t, "registry")

		q := NewNameQuery(first, "", last)
		name := NormalizeName(registry)
		if q.Matches(registry) && name != q.FullName() && len(name) < len(q.First)+len(q.Last) {
			t.Fatalf("%q matched %q with overlapping parts", registry, q.FullName())
		}
	})
}
