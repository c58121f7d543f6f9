package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenBytes is the entropy of a recovery token value.
const tokenBytes = 32

// IssuedToken pairs the plaintext value handed to the delivery channel with
// the record persisted on the account.
type IssuedToken struct {
	Value  string
	Stored RecoveryToken
}

// NewRecoveryToken generates an unguessable value that expires ttl after now.
func NewRecoveryToken(now time.Time, ttl time.Duration) (*IssuedToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("could not generate recovery token: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)
	return &IssuedToken{
		Value: value,
		Stored: RecoveryToken{
			Hash:      HashToken(value),
			IssuedAt:  now,
			ExpiresAt: now.Add(ttl),
		},
	}, nil
}

// HashToken is the lookup digest stored for a token value (SHA-256, hex).
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
