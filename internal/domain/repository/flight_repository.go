// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"flightdeck/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for flight persistence.
var (
	// ErrFlightNotFound covers both "record absent" and "record owned by
	// someone else"; the two cases are deliberately indistinguishable.
	ErrFlightNotFound = errors.New("flight not found")
	// ErrFlightNumberTaken is returned when the owner already has a record
	// with the same flight number.
	ErrFlightNumberTaken = errors.New("flight number already exists for this user")
)

// FlightRepository defines owner-scoped operations over flight records.
// Every query and mutation filters by the owning user's id; there is no way
// to reach another user's record through this interface.
type FlightRepository interface {
	// Create persists a new flight record.
	Create(ctx context.Context, flight *entity.Flight) error

	// ListByOwner retrieves all of one user's records, newest created first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Flight, error)

	// FindOwned retrieves one record by its key, scoped to the owner.
	FindOwned(ctx context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error)

	// FindOwnedByNumber retrieves one record by flight number, scoped to the owner.
	FindOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error)

	// UpdateOwned applies a partial-field update to one record by key,
	// scoped to the owner. Only the supplied columns are overwritten.
	UpdateOwned(ctx context.Context, ownerID, flightID uuid.UUID, fields map[string]any) error

	// UpdateOwnedByNumber applies a partial-field update by flight number,
	// scoped to the owner.
	UpdateOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string, fields map[string]any) error

	// DeleteOwnedByNumber removes one record by flight number, scoped to the owner.
	DeleteOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) error
}
