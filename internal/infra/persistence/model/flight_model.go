package model

import (
	"time"

	"github.com/google/uuid"
)

// FlightModel mirrors the 'flights' table. The composite unique index keeps
// flight numbers unique per owner, which the update/delete-by-number
// operations rely on.
type FlightModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_flights_owner_number;index:idx_flights_owner_created"`
	FlightNumber     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_flights_owner_number"`
	Destination      string    `gorm:"type:varchar(100);not null"`
	Hours            int       `gorm:"not null"`
	Minutes          int       `gorm:"not null"`
	Gate             string    `gorm:"type:varchar(20);not null"`
	Status           string    `gorm:"type:varchar(50);not null"`
	Airline          string    `gorm:"type:varchar(100)"`
	DepartureAirport string    `gorm:"type:varchar(10);not null"`
	ArrivalAirport   string    `gorm:"type:varchar(100);not null"`
	Photo            string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"index:idx_flights_owner_created"`
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (FlightModel) TableName() string {
	return "flights"
}
