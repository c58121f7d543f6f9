package models

import "time"

// RecoveryRequest carries the unauthenticated identity claims.
type RecoveryRequest struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	Email       string
}

// RequestMeta is transport metadata recorded on attempts. It is opaque here.
type RequestMeta struct {
	SourceAddress    string
	ClientIdentifier string
}

// RecoveryResult is returned after a token has been issued and recorded.
// Token is empty unless the service is configured to expose it.
type RecoveryResult struct {
	AccountID   string
	MemberID    string
	MaskedEmail string
	DisplayName string
	Church      string
	Region      string
	Token       string
	ExpiresAt   time.Time
}
