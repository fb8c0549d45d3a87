package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SessionKeyBytes is the size of the token sealing key
const SessionKeyBytes = 32

// GenerateSecret generates a cryptographically secure random secret
func GenerateSecret(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionSecret generates a hex encoded SESSION_SECRET
func GenerateSessionSecret() (string, error) {
	secret, err := GenerateSecret(SessionKeyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, nil
}
