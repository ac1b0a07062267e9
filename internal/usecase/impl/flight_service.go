package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "flightdeck/internal/delivery/context"
	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// flightService implements the FlightUsecase interface.
type flightService struct {
	flightRepo repository.FlightRepository
	logger     *slog.Logger
}

// FlightServiceParams holds dependencies for flightService, injected by Fx.
type FlightServiceParams struct {
	fx.In

	FlightRepo repository.FlightRepository
	Logger     *slog.Logger
}

// NewFlightService is the constructor for flightService.
func NewFlightService(params FlightServiceParams) usecase.FlightUsecase {
	return &flightService{
		flightRepo: params.FlightRepo,
		logger:     params.Logger,
	}
}

func (srv *flightService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns all of the owner's records, newest first.
func (srv *flightService) List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Flight, error) {
	flights, err := srv.flightRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list flights")
	}

	return flights, nil
}

// Create validates the required fields, fills defaults and persists the
// record under the caller's ownership.
func (srv *flightService) Create(ctx context.Context, ownerID uuid.UUID, input usecase.CreateFlightInput) (*entity.Flight, error) {
	flightNumber := strings.TrimSpace(input.FlightNumber)
	destination := strings.TrimSpace(input.Destination)
	if flightNumber == "" || destination == "" || input.Hours == nil || input.Minutes == nil {
		return nil, domainerrors.ErrValidationFailed
	}
	if *input.Hours < 0 || *input.Hours > 23 || *input.Minutes < 0 || *input.Minutes > 59 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("scheduled time out of range")
	}

	flight := &entity.Flight{
		OwnerID:          ownerID,
		FlightNumber:     flightNumber,
		Destination:      destination,
		Hours:            *input.Hours,
		Minutes:          *input.Minutes,
		Gate:             strings.TrimSpace(input.Gate),
		Status:           strings.TrimSpace(input.Status),
		Airline:          strings.TrimSpace(input.Airline),
		DepartureAirport: strings.TrimSpace(input.DepartureAirport),
		ArrivalAirport:   strings.TrimSpace(input.ArrivalAirport),
		Photo:            input.Photo,
	}
	flight.ApplyDefaults()

	if err := srv.flightRepo.Create(ctx, flight); err != nil {
		if errors.Is(err, repository.ErrFlightNumberTaken) {
			return nil, domainerrors.ErrFlightNumberTaken
		}

		return nil, errors.Wrap(err, "failed to create flight")
	}

	srv.log(ctx).Info("Flight created", slog.Any("ownerID", ownerID), slog.String("flightNumber", flight.FlightNumber))

	return flight, nil
}

// Get retrieves one record by its id.
func (srv *flightService) Get(ctx context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error) {
	flight, err := srv.flightRepo.FindOwned(ctx, ownerID, flightID)
	if err != nil {
		return nil, mapFlightError(err, "failed to get flight")
	}

	return flight, nil
}

// GetByNumber retrieves one record by flight number.
func (srv *flightService) GetByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error) {
	flight, err := srv.flightRepo.FindOwnedByNumber(ctx, ownerID, flightNumber)
	if err != nil {
		return nil, mapFlightError(err, "failed to get flight by number")
	}

	return flight, nil
}

// Update applies a partial update to the record with the given id.
func (srv *flightService) Update(ctx context.Context, ownerID, flightID uuid.UUID, input usecase.UpdateFlightInput) error {
	fields, err := updateFields(input)
	if err != nil {
		return err
	}

	if err := srv.flightRepo.UpdateOwned(ctx, ownerID, flightID, fields); err != nil {
		return mapFlightError(err, "failed to update flight")
	}

	return nil
}

// UpdateByNumber applies a partial update to the record with the given flight number.
func (srv *flightService) UpdateByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string, input usecase.UpdateFlightInput) error {
	fields, err := updateFields(input)
	if err != nil {
		return err
	}

	if err := srv.flightRepo.UpdateOwnedByNumber(ctx, ownerID, flightNumber, fields); err != nil {
		return mapFlightError(err, "failed to update flight by number")
	}

	return nil
}

// DeleteByNumber removes the record with the given flight number.
func (srv *flightService) DeleteByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) error {
	if err := srv.flightRepo.DeleteOwnedByNumber(ctx, ownerID, flightNumber); err != nil {
		return mapFlightError(err, "failed to delete flight")
	}

	srv.log(ctx).Info("Flight deleted", slog.Any("ownerID", ownerID), slog.String("flightNumber", flightNumber))

	return nil
}

// updateFields converts the pointer-based partial input into the column map
// handed to the repository, validating any supplied values on the way.
func updateFields(input usecase.UpdateFlightInput) (map[string]any, error) {
	fields := make(map[string]any)

	if input.FlightNumber != nil {
		trimmed := strings.TrimSpace(*input.FlightNumber)
		if trimmed == "" {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("flight number cannot be blank")
		}
		fields["flight_number"] = trimmed
	}
	if input.Destination != nil {
		trimmed := strings.TrimSpace(*input.Destination)
		if trimmed == "" {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("destination cannot be blank")
		}
		fields["destination"] = trimmed
	}
	if input.Hours != nil {
		if *input.Hours < 0 || *input.Hours > 23 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("scheduled hour out of range")
		}
		fields["hours"] = *input.Hours
	}
	if input.Minutes != nil {
		if *input.Minutes < 0 || *input.Minutes > 59 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("scheduled minute out of range")
		}
		fields["minutes"] = *input.Minutes
	}
	if input.Gate != nil {
		fields["gate"] = strings.TrimSpace(*input.Gate)
	}
	if input.Status != nil {
		fields["status"] = strings.TrimSpace(*input.Status)
	}
	if input.Airline != nil {
		fields["airline"] = strings.TrimSpace(*input.Airline)
	}
	if input.DepartureAirport != nil {
		fields["departure_airport"] = strings.TrimSpace(*input.DepartureAirport)
	}
	if input.ArrivalAirport != nil {
		fields["arrival_airport"] = strings.TrimSpace(*input.ArrivalAirport)
	}
	if input.Photo != nil {
		fields["photo"] = *input.Photo
	}

	return fields, nil
}

// mapFlightError translates persistence sentinels into the application error
// taxonomy, wrapping anything unexpected as-is for the error middleware.
func mapFlightError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrFlightNotFound):
		return domainerrors.ErrFlightNotFound
	case errors.Is(err, repository.ErrFlightNumberTaken):
		return domainerrors.ErrFlightNumberTaken
	default:
		return errors.Wrap(err, msg)
	}
}
