// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"flightdeck/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new local account.
// All three fields are required.
type RegisterInput struct {
	Username string
	Password string
	Name     string
}

// LoginInput defines the data required for a local login.
type LoginInput struct {
	Username string
	Password string
}

// UserUsecase defines the interface for account-related business operations.
// Both authentication strategies terminate in an *entity.Identity; the
// delivery layer turns that into a session.
type UserUsecase interface {
	// Register creates a new user with a local credential. The username is
	// globally unique among local credentials.
	Register(ctx context.Context, input RegisterInput) (*entity.Identity, error)

	// Login verifies a local credential and returns the caller's identity.
	// Unknown username and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, input LoginInput) (*entity.Identity, error)

	// GoogleAuthURL returns the provider authorization URL to redirect to,
	// or an empty string when federated sign-in is not configured.
	GoogleAuthURL() string

	// GoogleCallback completes the federated round trip: validates the state,
	// exchanges the code, and finds or provisions the matching user.
	GoogleCallback(ctx context.Context, state, code string) (*entity.Identity, error)
}
