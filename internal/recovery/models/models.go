package models

import (
	"crypto/subtle"
	"time"

	id "ffwpu/pkg/domain"
	dErrors "ffwpu/pkg/domain-errors"
)

// MemberRecord is a registered individual, owned by the member registry and
// read-only here. FullName may collide across members.
type MemberRecord struct {
	ID          id.MemberID
	FullName    string
	DateOfBirth *time.Time // calendar date, nil when the registry has none
	Church      string
	Region      string
}

// AccountStatus is the lifecycle state of a login-capable account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusDeleted   AccountStatus = "deleted"
)

// ParseAccountStatus accepts exactly active, suspended and deleted.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusDeleted:
		return AccountStatus(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvariantViolation, "unknown account status: "+s)
	}
}

// CheckEligible gates recovery on account status. It performs no transition.
func (s AccountStatus) CheckEligible() error {
	switch s {
	case AccountStatusActive:
		return nil
	case AccountStatusSuspended:
		return dErrors.New(dErrors.CodeAccountSuspended, "This account is suspended. Please contact an administrator.")
	case AccountStatusDeleted:
		return dErrors.New(dErrors.CodeAccountDeleted, "This account has been deleted. Please contact an administrator.")
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown account status: "+string(s))
	}
}

// RecoveryToken is the stored half of an issued recovery credential. Only the
// digest of the value is kept.
type RecoveryToken struct {
	Hash      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccountRecord is a login credential linked to at most one member.
type AccountRecord struct {
	ID            id.AccountID
	MemberID      id.MemberID
	Email         string // lower-cased
	Status        AccountStatus
	RecoveryToken *RecoveryToken
	CreatedAt     time.Time
}

// RecoveryTokenValid reports whether value is the outstanding token and has
// not expired at now. A newer issuance replaces the digest, so older values
// stop validating.
func (a *AccountRecord) RecoveryTokenValid(value string, now time.Time) bool {
	if a == nil || a.RecoveryToken == nil || value == "" {
		return false
	}
	if !now.Before(a.RecoveryToken.ExpiresAt) {
		return false
	}
	got := HashToken(value)
	return subtle.ConstantTimeCompare([]byte(got), []byte(a.RecoveryToken.Hash)) == 1
}

// AttemptOutcome is the terminal result of an audited attempt.
type AttemptOutcome string

const (
	AttemptOutcomeSuccess AttemptOutcome = "success"
	AttemptOutcomeFailure AttemptOutcome = "failure"
)

// AttemptRecord is one immutable entry in an account's recovery audit log.
type AttemptRecord struct {
	ID               id.AttemptID
	AccountID        id.AccountID
	ClaimedEmail     string
	Timestamp        time.Time
	SourceAddress    string
	ClientIdentifier string
	Device           string
	Outcome          AttemptOutcome
	Reason           string
}
