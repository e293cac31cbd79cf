// Package audit persists and forwards authentication audit events.
package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/turtacn/adminauth/internal/domain/models"
)

// Signer computes tamper-evidence signatures for audit events.
type Signer struct {
	key []byte
}

// NewSigner returns nil for an empty key, which disables signing.
func NewSigner(key string) *Signer {
	if key == "" {
		return nil
	}
	return &Signer{key: []byte(key)}
}

// Sign returns the base64 HMAC-SHA256 of event with its Signature field cleared.
func (s *Signer) Sign(event models.AuditEvent) (string, error) {
	event.Signature = ""
	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether event carries a valid signature.
func (s *Signer) Verify(event models.AuditEvent) bool {
	expected, err := s.Sign(event)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(event.Signature))
}
