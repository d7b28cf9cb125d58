package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EventSubSignaturePrefix prefixes the hex digest in the signature header.
const EventSubSignaturePrefix = "sha256="

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes HMAC-SHA256 of payload using secretKey.
// Returns "sha256=" followed by the lowercase hex digest.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return EventSubSignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks if signature matches HMAC-SHA256(secretKey, payload).
// Uses constant-time comparison to prevent timing attacks.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	if !strings.HasPrefix(signature, EventSubSignaturePrefix) {
		return false
	}
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// BuildEventSubMessage constructs the signed payload.
// Format: MESSAGE_ID + TIMESTAMP + BODY
func BuildEventSubMessage(messageID, timestamp string, body []byte) string {
	var b strings.Builder
	b.Grow(len(messageID) + len(timestamp) + len(body))
	b.WriteString(messageID)
	b.WriteString(timestamp)
	b.Write(body)
	return b.String()
}
