package usecase

import (
	"context"

	"flightdeck/internal/domain/entity"
)

// SessionUsecase manages the durable login sessions backing the auth cookie.
// The raw token is only ever held by the client; storage sees a keyed hash.
type SessionUsecase interface {
	// Create opens a session for the identity and returns the raw token to
	// be set in the cookie.
	Create(ctx context.Context, identity *entity.Identity) (string, error)

	// Resolve maps a raw cookie token to the identity it represents. An
	// unknown, expired or malformed token resolves to (nil, nil): the caller
	// is simply unauthenticated, not an error case.
	Resolve(ctx context.Context, token string) (*entity.Identity, error)

	// Destroy ends the session for the given raw token. Idempotent.
	Destroy(ctx context.Context, token string) error

	// PurgeExpired removes sessions past their absolute expiry and returns
	// the number removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
