package domain

import (
	"context"
	"time"
)

// Booking represents one attendee's interest in an event. It references the
// event by identifier only; a booking is immutable once created.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// BookingService defines the business logic for booking a spot at an event.
type BookingService interface {
	// CreateBooking validates the email shape, verifies the referenced event
	// exists, and commits. A booking never partially commits.
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
}
