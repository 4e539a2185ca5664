package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// AuditRepo writes the booking change history to MySQL.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo constructs an AuditRepo with the provided DB handle.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	if db == nil {
		panic("nil db passed to NewAuditRepo")
	}
	return &AuditRepo{db: db}
}

// EnsureSchema creates the booking_audit table when it does not exist yet.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS booking_audit (
	    id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	    event_id        CHAR(36)     NOT NULL,
	    action          VARCHAR(16)  NOT NULL,
	    location_number VARCHAR(255) NOT NULL,
	    payload         JSON         NOT NULL,
	    occurred_at     DATETIME     NOT NULL,
	    UNIQUE KEY uq_booking_audit_event (event_id),
	    KEY idx_booking_audit_location (location_number)
	)`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create booking_audit: %w", err)
	}
	return nil
}

// Insert stores one audit entry.  Redelivered events are ignored thanks to
// the unique event_id.
func (r *AuditRepo) Insert(ctx context.Context, e model.AuditEntry) error {
	const q = `INSERT IGNORE INTO booking_audit (event_id, action, location_number, payload, occurred_at)
	           VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, e.EventID, e.Action, e.LocationNumber, e.Payload, e.OccurredAt); err != nil {
		return fmt.Errorf("insert audit entry %s: %w", e.EventID, err)
	}
	return nil
}

// ListByLocation returns the audit trail of one location number, oldest first.
func (r *AuditRepo) ListByLocation(ctx context.Context, locationNumber string) ([]model.AuditEntry, error) {
	const q = `SELECT id, event_id, action, location_number, payload, occurred_at
	           FROM booking_audit WHERE location_number = ? ORDER BY occurred_at, id`
	rows, err := r.db.QueryContext(ctx, q, locationNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AuditEntry{}
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.EventID, &e.Action, &e.LocationNumber, &e.Payload, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
