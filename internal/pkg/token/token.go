package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewSessionToken generates a cryptographically random 64-character hex
// session token (256 bits of randomness).
func NewSessionToken() (string, error) {
	return random(32)
}

// NewResetToken generates a cryptographically random 64-character hex
// password-reset token.
func NewResetToken() (string, error) {
	return random(32)
}

func random(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
