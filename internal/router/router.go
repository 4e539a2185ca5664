package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hotel-booking-data/internal/handler" // import the handlers that implement the endpoints
)

// RegisterRoutes registers routes that are not part of the booking resource.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// BookingMiddleware bundles the middleware applied to the booking routes.
// Cache wraps the list endpoint, Invalidate wraps every mutation and Group
// runs on every route in the /bookings-data group (rate limiting).  Nil
// fields are skipped.
type BookingMiddleware struct {
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
	Group      []echo.MiddlewareFunc
}

// RegisterBookings registers the booking resource under /bookings-data.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, mw BookingMiddleware) *echo.Group {
	g := e.Group("/bookings-data", mw.Group...)

	// Reads.  Only the list is cached; the export is built from the same
	// in-memory list and is cheap enough to regenerate.
	g.GET("/get", h.ListBookings, only(mw.Cache)...)
	g.GET("/export", h.ExportBookings)

	// Mutations.  Each successful write drops the cached list.
	g.POST("/post", h.CreateBooking, only(mw.Invalidate)...)
	g.PUT("/update/:id", h.UpdateBooking, only(mw.Invalidate)...)
	g.DELETE("/delete/:id", h.DeleteBooking, only(mw.Invalidate)...)
	return g
}

// RegisterAudit registers the audit history endpoint on an existing booking
// group.  It is only mounted when the audit database is configured.
func RegisterAudit(g *echo.Group, a *handler.AuditHandler) {
	g.GET("/audit/:id", a.ListAudit)
}

func only(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
