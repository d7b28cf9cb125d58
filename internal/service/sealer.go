package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// AESSealer encrypts small secrets at rest with AES-256-GCM. The binding
// string is authenticated as additional data, so a value sealed for one
// sanctuary does not open for another.
type AESSealer struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewAESSealer creates a sealer. hexKey must be 64 hex characters (32 bytes).
func NewAESSealer(hexKey string) (*AESSealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding AES key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &AESSealer{aead: aead, rand: rand.Reader}, nil
}

// Seal returns base64url(nonce || ciphertext).
func (s *AESSealer) Seal(plaintext, binding string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(binding))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. It fails when binding differs from the one used to seal.
func (s *AESSealer) Open(sealed, binding string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding sealed value: %w", err)
	}
	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return "", errors.New("sealed value too short")
	}
	plaintext, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(binding))
	if err != nil {
		return "", fmt.Errorf("opening sealed value: %w", err)
	}
	return string(plaintext), nil
}
