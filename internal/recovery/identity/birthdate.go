package identity

import (
	"strings"
	"time"

	"ffwpu/internal/recovery/models"
	dErrors "ffwpu/pkg/domain-errors"
)

// Date is a calendar date with no time-of-day significance.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var birthDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseBirthDate accepts an ISO calendar date or timestamp. Timestamps are
// reduced to their UTC calendar date.
func ParseBirthDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, dErrors.New(dErrors.CodeInvalidDateFormat, "date_of_birth must be a valid date (YYYY-MM-DD)")
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// FilterByBirthDate keeps candidates whose stored birth date falls on dob.
// Candidates without a stored date cannot be confirmed and are dropped.
func FilterByBirthDate(candidates []*models.MemberRecord, dob Date) []*models.MemberRecord {
	var out []*models.MemberRecord
	for _, c := range candidates {
		if c.DateOfBirth == nil {
			continue
		}
		if DateOf(*c.DateOfBirth) == dob {
			out = append(out, c)
		}
	}
	return out
}

// AmbiguousMatchMessage is shown whenever more than one member could be the
// claimant.
const AmbiguousMatchMessage = "More than one member matches these details. Please contact an administrator to recover your account."

// Disambiguate narrows candidates to exactly one member or fails closed.
func Disambiguate(candidates []*models.MemberRecord, dob Date) (*models.MemberRecord, error) {
	confirmed := FilterByBirthDate(candidates, dob)
	switch len(confirmed) {
	case 0:
		return nil, dErrors.New(dErrors.CodeBirthDateMismatch, "birth date did not confirm any name match")
	case 1:
		return confirmed[0], nil
	default:
		return nil, dErrors.New(dErrors.CodeAmbiguousMatch, AmbiguousMatchMessage)
	}
}
