// Package xmlstore reads and writes the bookings XML document.  Reading is
// done with a token-level decoder that assembles one Booking per <booking>
// element.  Writing is split in two steps: Build assembles an element tree
// from the bookings and Encode renders that tree with indentation.
package xmlstore

import "errors"

// ErrParse is returned when the document is not well-formed or does not have
// the expected bookings shape.
var ErrParse = errors.New("bookings xml: parse error")

// ErrWrite is returned when the document cannot be written to disk.
var ErrWrite = errors.New("bookings xml: write error")
