package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for admin API key digests.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64MB
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

// Argon2KeyHasher digests admin API keys so deployments can configure
// mural.api_key_hash instead of the plain secret.
type Argon2KeyHasher struct{}

// NewArgon2KeyHasher creates a new Argon2id key hasher.
func NewArgon2KeyHasher() *Argon2KeyHasher {
	return &Argon2KeyHasher{}
}

// Hash returns the encoded Argon2id digest of key.
// Format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *Argon2KeyHasher) Hash(key string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	sum := argon2.IDKey([]byte(key), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify checks key against an encoded digest.
func (h *Argon2KeyHasher) Verify(key string, encoded string) (bool, error) {
	d, err := decodeArgon2(encoded)
	if err != nil {
		return false, err
	}
	return d.matches(key), nil
}

// Checker parses encoded once and returns a predicate for presented keys.
// A malformed digest is reported here rather than on every request.
func (h *Argon2KeyHasher) Checker(encoded string) (func(string) bool, error) {
	d, err := decodeArgon2(encoded)
	if err != nil {
		return nil, err
	}
	return d.matches, nil
}

type argon2Digest struct {
	salt    []byte
	hash    []byte
	memory  uint32
	time    uint32
	threads uint8
}

func (d *argon2Digest) matches(key string) bool {
	other := argon2.IDKey([]byte(key), d.salt, d.time, d.memory, d.threads, uint32(len(d.hash)))
	return subtle.ConstantTimeCompare(d.hash, other) == 1
}

func decodeArgon2(encoded string) (*argon2Digest, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid hash format: expected 6 parts, got %d", len(parts))
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	d := &argon2Digest{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.time, &d.threads); err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	if d.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(d.hash) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	return d, nil
}
