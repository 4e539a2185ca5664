package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// AuditLister is satisfied by repository.AuditRepo.
type AuditLister interface {
	ListByLocation(ctx context.Context, locationNumber string) ([]model.AuditEntry, error)
}

// AuditHandler exposes the change history recorded by the event consumer.
type AuditHandler struct {
	Repo AuditLister
	Log  *zap.Logger
}

type auditItem struct {
	EventID        string          `json:"eventId"`
	Action         string          `json:"action"`
	LocationNumber string          `json:"locationNumber"`
	Event          json.RawMessage `json:"event"`
	OccurredAt     string          `json:"occurredAt"`
}

// ListAudit handles GET /bookings-data/audit/:id.  An id with no history
// yields an empty list, not a 404, since the booking may predate the audit
// table.
func (h *AuditHandler) ListAudit(c echo.Context) error {
	entries, err := h.Repo.ListByLocation(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("list audit failed", zap.String("location_number", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]auditItem, 0, len(entries))
	for _, e := range entries {
		var ev json.RawMessage
		if json.Valid([]byte(e.Payload)) {
			ev = json.RawMessage(e.Payload)
		}
		items = append(items, auditItem{
			EventID:        e.EventID,
			Action:         e.Action,
			LocationNumber: e.LocationNumber,
			Event:          ev,
			OccurredAt:     e.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
