package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-data/internal/export"
	"github.com/iliyamo/hotel-booking-data/internal/model"
	q "github.com/iliyamo/hotel-booking-data/internal/queue"
	"github.com/iliyamo/hotel-booking-data/internal/repository"
)

// BookingStore is the subset of repository.BookingRepo used by the handlers.
type BookingStore interface {
	List() []model.Booking
	Add(b model.Booking) (model.Booking, error)
	Update(id string, patch *model.Booking) ([]model.Booking, error)
	Remove(id string) (int, error)
}

// ChangePublisher announces persisted changes.  Delivery is best effort.
type ChangePublisher interface {
	PublishBookingChanged(ctx context.Context, ev q.BookingChangedEvent) error
}

const publishTimeout = 5 * time.Second

// BookingHandler serves the /bookings-data endpoints.
type BookingHandler struct {
	Store     BookingStore
	Publisher ChangePublisher
	Log       *zap.Logger
}

// NewBookingHandler constructs a BookingHandler and panics if any dependency is nil.
func NewBookingHandler(store BookingStore, publisher ChangePublisher, log *zap.Logger) *BookingHandler {
	if store == nil || publisher == nil || log == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Store: store, Publisher: publisher, Log: log}
}

// ListBookings handles GET /bookings-data/get and returns every booking in
// file order.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.List())
}

// CreateBooking handles POST /bookings-data/post.  The booking is appended
// as sent; a missing locationNumber is rejected with 400.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var b model.Booking
	if err := c.Bind(&b); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	created, err := h.Store.Add(b)
	if err != nil {
		if errors.Is(err, repository.ErrMissingLocationNumber) || errors.Is(err, repository.ErrInvalidText) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.Log.Error("create booking failed", zap.String("location_number", b.LocationNumber), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking: " + err.Error()})
	}
	h.publish(c, q.NewBookingChangedEvent(q.ActionCreated, created.LocationNumber, &created))
	return c.JSON(http.StatusCreated, created)
}

// UpdateBooking handles PUT /bookings-data/update/:id.  Every field of the
// body except locationNumber replaces the stored value of the first booking
// with that location number; the full list is returned.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id := c.Param("id")
	patch, err := readPatch(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	list, err := h.Store.Update(id, patch)
	switch {
	case errors.Is(err, repository.ErrEmptyPatch), errors.Is(err, repository.ErrInvalidText):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found for id: " + id})
	case err != nil:
		h.Log.Error("update booking failed", zap.String("location_number", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update booking: " + err.Error()})
	}

	for i := range list {
		if list[i].LocationNumber == id {
			h.publish(c, q.NewBookingChangedEvent(q.ActionUpdated, id, &list[i]))
			break
		}
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteBooking handles DELETE /bookings-data/delete/:id and removes every
// booking with that location number.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id := c.Param("id")
	n, err := h.Store.Remove(id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found for id: " + id})
		}
		h.Log.Error("delete booking failed", zap.String("location_number", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete booking: " + err.Error()})
	}
	ev := q.NewBookingChangedEvent(q.ActionDeleted, id, nil)
	ev.Removed = n
	h.publish(c, ev)
	return c.NoContent(http.StatusNoContent)
}

// ExportBookings handles GET /bookings-data/export and returns the list as
// an xlsx workbook.
func (h *BookingHandler) ExportBookings(c echo.Context) error {
	data, err := export.BookingsXLSX(h.Store.List())
	if err != nil {
		h.Log.Error("export bookings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not export bookings"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// publish sends ev without letting a broker problem fail the request; the
// change is already on disk at this point.
func (h *BookingHandler) publish(c echo.Context, ev q.BookingChangedEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := h.Publisher.PublishBookingChanged(ctx, ev); err != nil {
		h.Log.Warn("booking change not published",
			zap.String("event_id", ev.EventID),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}

// readPatch decodes an update body.  An empty body or a JSON null yields a
// nil patch.
func readPatch(body io.Reader) (*model.Booking, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var patch *model.Booking
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, err
	}
	return patch, nil
}
