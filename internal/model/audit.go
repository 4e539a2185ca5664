package model

import "time"

// AuditEntry is one row of the booking_audit table: a record of a single
// change applied to the bookings file.
type AuditEntry struct {
	ID             uint64    // booking_audit.id
	EventID        string    // booking_audit.event_id (unique)
	Action         string    // booking_audit.action (created, updated, deleted)
	LocationNumber string    // booking_audit.location_number
	Payload        string    // booking_audit.payload, the event as JSON
	OccurredAt     time.Time // booking_audit.occurred_at
}
