package reservation

import (
	"strings"
	"time"
)

const (
	StatusPending               = "PENDING"
	StatusConfirmed             = "CONFIRMED"
	StatusCancellationRequested = "CANCELLATION_REQUESTED"
	StatusCancelled             = "CANCELLED"
	StatusCompleted             = "COMPLETED"
)

const (
	DefaultTable  = 1
	DefaultGuests = 2
	MaxGuests     = 20
)

// Reservation is a table booking as the backend reports it.
type Reservation struct {
	ID              string
	TableNumber     int
	Guests          int
	At              time.Time
	Status          string
	SpecialRequests string
	CustomerID      string
	CustomerName    string
}

// CanRequestCancellation reports whether the customer may still ask to
// cancel.
func (r Reservation) CanRequestCancellation() bool {
	switch strings.ToUpper(r.Status) {
	case StatusCancellationRequested, StatusCancelled, StatusCompleted:
		return false
	default:
		return true
	}
}

// Request asks for a new booking.
type Request struct {
	TableNumber     int
	Guests          int
	At              time.Time
	SpecialRequests string
}

// Validate returns the problems found in req; an empty result means valid.
func Validate(req Request, now time.Time) []string {
	var errors []string

	if req.TableNumber <= 0 {
		errors = append(errors, "table number must be greater than 0")
	}

	if req.Guests <= 0 {
		errors = append(errors, "number of guests must be greater than 0")
	} else if req.Guests > MaxGuests {
		errors = append(errors, "number of guests cannot exceed 20")
	}

	if req.At.IsZero() {
		errors = append(errors, "date and time are required")
	} else if !req.At.After(now) {
		errors = append(errors, "date and time must be in the future")
	}

	return errors
}
