package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// Recorder stores a consumed event somewhere durable.
type Recorder interface {
	Record(ctx context.Context, ev BookingChangedEvent) error
}

// FileRecorder appends one human-friendly line per event to
// <Dir>/booking.log.
type FileRecorder struct {
	Dir string
	mu  sync.Mutex
}

func (r *FileRecorder) Record(_ context.Context, ev BookingChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(r.Dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Booking %s | event_id=%s | location_number=%q", ev.OccurredAt, ev.Action, ev.EventID, ev.LocationNumber)
	if b := ev.Booking; b != nil {
		line += fmt.Sprintf(" | client=%q | hotel=%q | check_in=%q | nights=%d | price=%.2f",
			b.ClientName, b.HotelName, b.CheckInDate, b.RoomNights, b.Price)
	}
	if ev.Removed > 0 {
		line += fmt.Sprintf(" | removed=%d", ev.Removed)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// AuditInserter is satisfied by repository.AuditRepo.
type AuditInserter interface {
	Insert(ctx context.Context, e model.AuditEntry) error
}

// DBRecorder converts events into audit rows.
type DBRecorder struct {
	Repo AuditInserter
}

func (r DBRecorder) Record(ctx context.Context, ev BookingChangedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	at, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		at = time.Now().UTC()
	}
	return r.Repo.Insert(ctx, model.AuditEntry{
		EventID:        ev.EventID,
		Action:         ev.Action,
		LocationNumber: ev.LocationNumber,
		Payload:        string(payload),
		OccurredAt:     at,
	})
}
