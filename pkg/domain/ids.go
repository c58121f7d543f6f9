// Package domain holds domain primitives shared across modules.
package domain

import (
	"github.com/google/uuid"

	dErrors "ffwpu/pkg/domain-errors"
)

// Typed identifiers. Distinct types stop a member ID being passed where an
// account ID is expected; the compiler enforces it.
type (
	MemberID  uuid.UUID
	AccountID uuid.UUID
	AttemptID uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

// ParseMemberID parses a non-nil UUID into a MemberID.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID("member ID", s)
	return MemberID(u), err
}

// ParseAccountID parses a non-nil UUID into an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID("account ID", s)
	return AccountID(u), err
}

// ParseAttemptID parses a non-nil UUID into an AttemptID.
func ParseAttemptID(s string) (AttemptID, error) {
	u, err := parseUUID("attempt ID", s)
	return AttemptID(u), err
}

func NewMemberID() MemberID   { return MemberID(uuid.New()) }
func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewAttemptID() AttemptID { return AttemptID(uuid.New()) }

func (id MemberID) String() string  { return uuid.UUID(id).String() }
func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AttemptID) String() string { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AttemptID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
