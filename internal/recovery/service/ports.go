package service

import (
	"context"
	"time"

	"ffwpu/internal/recovery/identity"
	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
)

// MemberRegistry is the read-only system of record for members. It may return
// a superset of matches; the service re-applies the name predicates.
type MemberRegistry interface {
	FindCandidates(ctx context.Context, q identity.NameQuery) ([]*models.MemberRecord, error)
}

// AccountStore reads accounts and records recovery mutations. FindByMemberID
// returns sentinel.ErrNotFound when the member has no account.
type AccountStore interface {
	FindByMemberID(ctx context.Context, memberID id.MemberID) (*models.AccountRecord, error)
	SetRecoveryToken(ctx context.Context, accountID id.AccountID, token models.RecoveryToken) error
	AppendAttempt(ctx context.Context, attempt *models.AttemptRecord) error
}

// AccountStoreTx runs fn as one unit of work. Writes made through the
// AccountStore with the ctx passed to fn commit together or not at all.
type AccountStoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Delivery is what the out-of-band channel needs to notify the account holder.
type Delivery struct {
	AccountID   id.AccountID
	Email       string
	DisplayName string
	Token       string
	ExpiresAt   time.Time
}

// TokenDelivery hands an issued token to the notification channel.
type TokenDelivery interface {
	Deliver(ctx context.Context, d Delivery) error
}
