// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"flightdeck/internal/domain/entity"
)

// ErrSessionNotFound is returned when no session matches a token hash.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the operations for durable session persistence.
// Sessions live in the database so authentication survives process restarts.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a session by the stored hash of its token.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash removes a session by its token hash, ending it.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all sessions past their absolute expiry and
	// returns how many rows were removed. Called periodically for cleanup.
	DeleteExpired(ctx context.Context) (int64, error)
}
