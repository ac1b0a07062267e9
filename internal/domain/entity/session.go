// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session ties an opaque client-held token to a small identity payload.
// Only a keyed hash of the token is persisted; the raw token lives solely in
// the client cookie. Sessions are stored durably so logins survive restarts.
type Session struct {
	ID        uuid.UUID
	TokenHash string    // HMAC-SHA256 of the raw cookie token.
	UserID    uuid.UUID // Who is logged in.
	UserName  string    // Display name, denormalized for rendering.
	CreatedAt time.Time
	ExpiresAt time.Time // Absolute expiry; no sliding renewal.
}

// IsExpired reports whether the session has passed its absolute TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity returns the identity payload carried by this session.
func (s *Session) Identity() *Identity {
	return &Identity{ID: s.UserID, Name: s.UserName}
}
