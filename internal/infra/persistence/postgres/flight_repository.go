package postgres

import (
	"context"

	"flightdeck/internal/domain/entity"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// flightRepository implements the domain.FlightRepository interface using GORM.
// Every statement filters by owner_id, so ownership is enforced at the query
// level rather than checked after the fact.
type flightRepository struct {
	db *gorm.DB
}

// NewFlightRepository is the constructor for flightRepository.
func NewFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &flightRepository{db: db}
}

// Create persists a new flight record.
func (repo *flightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}

	flightM := fromFlightDomain(flight)
	if err := repo.db.WithContext(ctx).Create(flightM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrFlightNumberTaken
		}

		return errors.Wrap(err, "failed to create flight")
	}

	flight.CreatedAt = flightM.CreatedAt
	flight.UpdatedAt = flightM.UpdatedAt

	return nil
}

// ListByOwner retrieves all of one user's records, newest created first.
func (repo *flightRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Flight, error) {
	var flightMs []*model.FlightModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&flightMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list flights")
	}

	flights := make([]*entity.Flight, 0, len(flightMs))
	for _, flightM := range flightMs {
		flights = append(flights, toFlightDomain(flightM))
	}

	return flights, nil
}

// FindOwned retrieves one record by its key, scoped to the owner.
func (repo *flightRepository) FindOwned(ctx context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error) {
	return repo.findOne(ctx, "owner_id = ? AND id = ?", ownerID, flightID)
}

// FindOwnedByNumber retrieves one record by flight number, scoped to the owner.
func (repo *flightRepository) FindOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error) {
	return repo.findOne(ctx, "owner_id = ? AND flight_number = ?", ownerID, flightNumber)
}

func (repo *flightRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Flight, error) {
	var flightM model.FlightModel
	if err := repo.db.WithContext(ctx).Where(query, args...).First(&flightM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFlightNotFound
		}

		return nil, errors.Wrap(err, "failed to find flight")
	}

	return toFlightDomain(&flightM), nil
}

// UpdateOwned applies a partial-field update to one record by key, scoped to
// the owner. An update that matches no row means the record is absent or
// belongs to someone else; both report ErrFlightNotFound.
func (repo *flightRepository) UpdateOwned(ctx context.Context, ownerID, flightID uuid.UUID, fields map[string]any) error {
	return repo.updateOne(ctx, fields, "owner_id = ? AND id = ?", ownerID, flightID)
}

// UpdateOwnedByNumber applies a partial-field update by flight number, scoped
// to the owner.
func (repo *flightRepository) UpdateOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string, fields map[string]any) error {
	return repo.updateOne(ctx, fields, "owner_id = ? AND flight_number = ?", ownerID, flightNumber)
}

func (repo *flightRepository) updateOne(ctx context.Context, fields map[string]any, query string, args ...any) error {
	if len(fields) == 0 {
		// Nothing to change; still confirm the record exists for this owner.
		_, err := repo.findOne(ctx, query, args...)

		return err
	}

	result := repo.db.WithContext(ctx).
		Model(&model.FlightModel{}).
		Where(query, args...).
		Updates(fields)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrFlightNumberTaken
		}

		return errors.Wrap(result.Error, "failed to update flight")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFlightNotFound
	}

	return nil
}

// DeleteOwnedByNumber removes one record by flight number, scoped to the owner.
func (repo *flightRepository) DeleteOwnedByNumber(ctx context.Context, ownerID uuid.UUID, flightNumber string) error {
	result := repo.db.WithContext(ctx).
		Where("owner_id = ? AND flight_number = ?", ownerID, flightNumber).
		Delete(&model.FlightModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete flight")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFlightNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toFlightDomain(data *model.FlightModel) *entity.Flight {
	if data == nil {
		return nil
	}

	return &entity.Flight{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		FlightNumber:     data.FlightNumber,
		Destination:      data.Destination,
		Hours:            data.Hours,
		Minutes:          data.Minutes,
		Gate:             data.Gate,
		Status:           data.Status,
		Airline:          data.Airline,
		DepartureAirport: data.DepartureAirport,
		ArrivalAirport:   data.ArrivalAirport,
		Photo:            data.Photo,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromFlightDomain(data *entity.Flight) *model.FlightModel {
	if data == nil {
		return nil
	}

	return &model.FlightModel{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		FlightNumber:     data.FlightNumber,
		Destination:      data.Destination,
		Hours:            data.Hours,
		Minutes:          data.Minutes,
		Gate:             data.Gate,
		Status:           data.Status,
		Airline:          data.Airline,
		DepartureAirport: data.DepartureAirport,
		ArrivalAirport:   data.ArrivalAirport,
		Photo:            data.Photo,
	}
}
