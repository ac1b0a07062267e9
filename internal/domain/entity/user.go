// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the root entity of the system, representing one registered account.
// A user is created on local registration or on first federated login and is
// never mutated afterwards.
type User struct {
	ID        uuid.UUID // Internal identifier; sessions and flights reference this.
	Name      string    // Display name shown on rendered pages.
	Email     string    // Contact email; placeholder when the provider omits it.
	CreatedAt time.Time
}

// Identity is the canonical authenticated-caller value for one request.
// Both authentication strategies terminate in this shape; the authorization
// gate attaches exactly one Identity to each protected request.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
