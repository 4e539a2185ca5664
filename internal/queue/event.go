// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// BookingChangedQueue is the durable queue carrying BookingChangedEvent.
const BookingChangedQueue = "booking.changed"

// Actions carried by BookingChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BookingChangedEvent is published after a change to the bookings file has
// been persisted.  Booking holds the stored record for created and updated
// events and is nil for deletions, where Removed tells how many records
// carried the location number.
type BookingChangedEvent struct {
	EventID        string         `json:"event_id"`
	Action         string         `json:"action"`
	LocationNumber string         `json:"location_number"`
	Booking        *model.Booking `json:"booking,omitempty"`
	Removed        int            `json:"removed,omitempty"`
	OccurredAt     string         `json:"occurred_at"`
}

// NewBookingChangedEvent stamps a new event with a random ID and the current
// UTC time.
func NewBookingChangedEvent(action, locationNumber string, b *model.Booking) BookingChangedEvent {
	return BookingChangedEvent{
		EventID:        uuid.NewString(),
		Action:         action,
		LocationNumber: locationNumber,
		Booking:        b,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
