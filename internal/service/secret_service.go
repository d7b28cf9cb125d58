package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	secretSaltLen = 16
	secretKeyLen  = 32 // hex encoded to 64 chars, inside EventSub's 10..100 limit
)

// HKDFSecretService derives per-sanctuary webhook secrets from a master key.
type HKDFSecretService struct {
	master []byte
	rand   io.Reader
}

// NewHKDFSecretService creates a secret service keyed by master.
func NewHKDFSecretService(master string) (*HKDFSecretService, error) {
	if len(master) < 16 {
		return nil, errors.New("master secret must be at least 16 bytes")
	}
	return &HKDFSecretService{master: []byte(master), rand: rand.Reader}, nil
}

// Derive returns a fresh hex-encoded secret bound to sanctuary and purpose.
// Each call draws a new random salt, so two calls never return the same secret.
func (s *HKDFSecretService) Derive(sanctuary, purpose string) (string, error) {
	salt := make([]byte, secretSaltLen)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	info := []byte(purpose + "|" + sanctuary)
	key := make([]byte, secretKeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.master, salt, info), key); err != nil {
		return "", fmt.Errorf("deriving secret: %w", err)
	}
	return hex.EncodeToString(key), nil
}
