// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies one way of logging in.
type ProviderType string

const (
	// ProviderTypeLocal is username/password authentication; the provider
	// user id is the chosen username.
	ProviderTypeLocal ProviderType = "local"
	// ProviderTypeGoogle is federated Google sign-in; the provider user id is
	// Google's 'sub' claim.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// Authentication represents a single method of logging in (a credential).
// A user's username/password is one record, a linked Google account another.
// A user may carry both, linked independently by either path.
type Authentication struct {
	ID             uuid.UUID    // Unique ID of this credential record.
	UserID         uuid.UUID    // The User this credential belongs to.
	Provider       ProviderType // "local" or "google".
	ProviderUserID string       // Username for local, Google 'sub' for google.
	PasswordHash   string       // bcrypt hash; only set when Provider is "local".
	CreatedAt      time.Time
}
