// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default values applied to optional flight fields at creation.
const (
	DefaultGate             = "N/A"
	DefaultStatus           = "On Time"
	DefaultDepartureAirport = "HKG"
	DefaultArrivalAirport   = "N/A"
)

// Flight is an owned resource: every read, update and delete filters by both
// the record's own key and the owner's user id. The flight number is unique
// per owner, which makes the update/delete-by-number operations well defined.
type Flight struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID // The user this record belongs to.
	FlightNumber     string
	Destination      string
	Hours            int // Scheduled hour, 0-23.
	Minutes          int // Scheduled minute, 0-59.
	Gate             string
	Status           string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	Photo            string // Optional attachment, base64-encoded.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplyDefaults fills unset optional fields with their documented defaults.
// The arrival airport falls back to the destination before the sentinel.
func (f *Flight) ApplyDefaults() {
	if f.Gate == "" {
		f.Gate = DefaultGate
	}
	if f.Status == "" {
		f.Status = DefaultStatus
	}
	if f.DepartureAirport == "" {
		f.DepartureAirport = DefaultDepartureAirport
	}
	if f.ArrivalAirport == "" {
		if f.Destination != "" {
			f.ArrivalAirport = f.Destination
		} else {
			f.ArrivalAirport = DefaultArrivalAirport
		}
	}
}

// ScheduledTime renders the scheduled hours/minutes as "HH:MM" for views.
func (f *Flight) ScheduledTime() string {
	return fmt.Sprintf("%02d:%02d", f.Hours, f.Minutes)
}
