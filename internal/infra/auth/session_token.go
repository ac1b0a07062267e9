// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"flightdeck/config"
	"flightdeck/internal/domain/service"

	"github.com/pkg/errors"
)

const rawTokenBytes = 32

// sessionTokenSource issues opaque session tokens and hashes them with an
// HMAC keyed by the configured session secret. The database only ever sees
// the hash, so a dump cannot be replayed as cookies.
type sessionTokenSource struct {
	secret []byte
}

// NewSessionTokenSource is the constructor for sessionTokenSource.
func NewSessionTokenSource(cfg *config.Config) service.TokenSource {
	return &sessionTokenSource{secret: []byte(cfg.Session.Secret)}
}

// Generate returns a new cryptographically random token, hex-encoded.
func (s *sessionTokenSource) Generate() (string, error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes for session token")
	}

	return hex.EncodeToString(buf), nil
}

// Hash returns the keyed HMAC-SHA256 of a raw token.
func (s *sessionTokenSource) Hash(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))

	return hex.EncodeToString(mac.Sum(nil))
}
