package main

import (
	"context"
	"time"

	"ffwpu/internal/recovery/models"
	"ffwpu/internal/recovery/store/account"
	"ffwpu/internal/recovery/store/member"
	id "ffwpu/pkg/domain"
)

// seedDemo loads one member with an active account so the flow can be tried
// locally with:
//
//	{"first_name":"Demo","last_name":"Member","date_of_birth":"1990-01-01"}
func seedDemo(ctx context.Context, members *member.InMemoryStore, accounts *account.InMemoryStore) error {
	dob := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	m := &models.MemberRecord{
		ID:          id.NewMemberID(),
		FullName:    "Demo Member",
		DateOfBirth: &dob,
		Church:      "Demo Church",
		Region:      "Demo Region",
	}
	if err := members.Save(ctx, m); err != nil {
		return err
	}
	return accounts.Save(ctx, &models.AccountRecord{
		ID:        id.NewAccountID(),
		MemberID:  m.ID,
		Email:     "demo.member@example.org",
		Status:    models.AccountStatusActive,
		CreatedAt: time.Now().UTC(),
	})
}
