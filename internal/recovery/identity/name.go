// Package identity reconciles unauthenticated identity claims against
// registry records. Everything here is pure.
package identity

import (
	"errors"
	"strings"

	"ffwpu/internal/recovery/models"
)

// MaxCandidates bounds how many name matches a registry may hand back for one
// query.
const MaxCandidates = 50

// ErrTooManyCandidates is returned by a registry when more than MaxCandidates
// members match. A truncated set must never be disambiguated.
var ErrTooManyCandidates = errors.New("too many candidates")

// NormalizeName lower-cases, trims and collapses whitespace runs to a single
// space. It is applied to registry names and claimed names alike.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NameQuery is a normalized set of claimed name parts.
type NameQuery struct {
	First  string
	Middle string
	Last   string
}

// NewNameQuery normalizes each part. Middle may be empty.
func NewNameQuery(first, middle, last string) NameQuery {
	return NameQuery{
		First:  NormalizeName(first),
		Middle: NormalizeName(middle),
		Last:   NormalizeName(last),
	}
}

// FullName joins the present parts: first, [middle], last.
func (q NameQuery) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.First, q.Middle, q.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether a required part is missing.
func (q NameQuery) Empty() bool {
	return q.First == "" || q.Last == ""
}

// Matches reports whether a registry name satisfies either strategy: exact
// canonical equality, or starting with the first name and ending with the
// last name, the two not overlapping. Comparison is literal, so claimed text is never interpreted as
// a pattern.
func (q NameQuery) Matches(registryName string) bool {
	if q.Empty() {
		return false
	}
	name := NormalizeName(registryName)
	if name == q.FullName() {
		return true
	}
	if !strings.HasPrefix(name, q.First) {
		return false
	}
	// The last name must follow the first name without overlapping it.
	return strings.HasSuffix(name[len(q.First):], q.Last)
}

// MatchCandidates filters members with q and dedupes by member ID, keeping
// the first occurrence.
func MatchCandidates(q NameQuery, members []*models.MemberRecord) []*models.MemberRecord {
	seen := make(map[string]struct{}, len(members))
	var out []*models.MemberRecord
	for _, m := range members {
		if m == nil || !q.Matches(m.FullName) {
			continue
		}
		key := m.ID.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// EscapeLike escapes LIKE metacharacters (backslash, percent, underscore)
// so claimed text can be embedded in a pattern with ESCAPE '\'.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
