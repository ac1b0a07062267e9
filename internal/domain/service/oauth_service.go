// Package service defines interfaces for core, stateless domain logic.
package service

import (
	"context"

	"flightdeck/internal/domain/entity"
)

// OAuthUser represents the verified external profile returned by a federated
// identity provider after a successful credential exchange.
type OAuthUser struct {
	ID    string // Provider-specific user ID (e.g., Google's 'sub' claim).
	Email string // May be empty when the provider withholds it.
	Name  string // Provider display name.
}

// OAuthService is the capability contract for the redirect-based federated
// login flow. The provider's internal protocol is out of scope; this
// interface treats it as "exchange a credential for an identity".
type OAuthService interface {
	// BuildAuthorizationURL returns the provider consent URL carrying a
	// freshly issued CSRF state parameter.
	BuildAuthorizationURL() string

	// ValidateState checks and consumes a state parameter returned by the
	// provider callback.
	ValidateState(state string) bool

	// ExchangeCode trades an authorization code for the verified profile.
	ExchangeCode(ctx context.Context, code string) (*OAuthUser, error)

	// Provider returns which provider this service speaks for.
	Provider() entity.ProviderType
}
