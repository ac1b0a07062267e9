package usecase

import (
	"context"

	"flightdeck/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateFlightInput defines the data for a new flight record. FlightNumber,
// Destination, Hours and Minutes are required; the rest default. Hours and
// Minutes are pointers so an omitted scheduled time is distinguishable from
// midnight and can be rejected.
type CreateFlightInput struct {
	FlightNumber     string
	Destination      string
	Hours            *int
	Minutes          *int
	Gate             string
	Status           string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	Photo            string
}

// UpdateFlightInput is a partial update: nil fields are left untouched,
// non-nil fields overwrite. There is no way to express "clear this field",
// matching the form semantics of the pages.
type UpdateFlightInput struct {
	FlightNumber     *string
	Destination      *string
	Hours            *int
	Minutes          *int
	Gate             *string
	Status           *string
	Airline          *string
	DepartureAirport *string
	ArrivalAirport   *string
	Photo            *string
}

// FlightUsecase defines owner-scoped operations over flight records. The
// owner always comes from the authenticated identity, never from input.
type FlightUsecase interface {
	// List returns all of the owner's records, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Flight, error)

	// Create adds a record after validation and default filling.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateFlightInput) (*entity.Flight, error)

	// Get retrieves one record by its id.
	Get(ctx context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error)

	// GetByNumber retrieves one record by flight number.
	GetByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error)

	// Update applies a partial update to the record with the given id.
	Update(ctx context.Context, ownerID, flightID uuid.UUID, input UpdateFlightInput) error

	// UpdateByNumber applies a partial update to the record with the given
	// flight number.
	UpdateByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string, input UpdateFlightInput) error

	// DeleteByNumber removes the record with the given flight number.
	DeleteByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) error
}
