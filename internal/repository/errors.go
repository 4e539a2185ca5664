// Package repository defines error types that are reused across the
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios and map them to HTTP
// status codes.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking carries the requested
// location number.  Handlers should translate this into an HTTP 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmptyPatch is returned by Update when no replacement values were
// supplied.  Handlers should translate this into an HTTP 400.
var ErrEmptyPatch = errors.New("updated booking is empty")

// ErrMissingLocationNumber is returned by Add when the new booking has no
// key.  Handlers should translate this into an HTTP 400.
var ErrMissingLocationNumber = errors.New("locationNumber is required")

// ErrLoad wraps every failure to read the backing file into memory, whether
// the file is missing, unreadable or malformed.
var ErrLoad = errors.New("load bookings")

// ErrInvalidText is returned by Add and Update when a string field holds
// invalid UTF-8 or a character XML 1.0 cannot represent.  Handlers should
// translate this into an HTTP 400.
var ErrInvalidText = errors.New("text not representable in XML")
