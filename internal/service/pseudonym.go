package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// PseudonymizeEmail returns the SHA-256 hex digest of email.
// Callers normalize (trim, lower-case) before hashing.
func PseudonymizeEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
