package xmlstore

import (
	"encoding/xml"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// Element names and attributes of the bookings document.
const (
	elemBookings   = "bookings"
	elemBooking    = "booking"
	elemClient     = "client"
	elemAgency     = "agency"
	elemPrice      = "price"
	elemRoom       = "room"
	elemHotel      = "hotel"
	elemCheckIn    = "check_in"
	elemRoomNights = "room_nights"

	attrLocationNumber = "location_number"
	attrClientID       = "id_client"
	attrAgencyID       = "id_agency"
	attrRoomType       = "id_type"
	attrHotelID        = "id_hotel"
)

// Element is a node of the document tree produced by Build.  An element has
// either Text or Children, never both.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

func newElement(name string) *Element {
	return &Element{Name: name}
}

func (e *Element) attr(name, value string) *Element {
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

func (e *Element) text(s string) *Element {
	e.Text = s
	return e
}

func (e *Element) add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Build assembles the bookings document tree, one <booking> per record in
// slice order.
func Build(bookings []model.Booking) *Element {
	root := newElement(elemBookings)
	for _, b := range bookings {
		root.add(bookingElement(b))
	}
	return root
}

func bookingElement(b model.Booking) *Element {
	return newElement(elemBooking).
		attr(attrLocationNumber, b.LocationNumber).
		add(
			newElement(elemClient).attr(attrClientID, b.ClientID).text(b.ClientName),
			newElement(elemAgency).attr(attrAgencyID, b.AgencyID).text(b.AgencyName),
			newElement(elemPrice).text(FormatPrice(b.Price)),
			newElement(elemRoom).attr(attrRoomType, b.RoomType).text(b.RoomType),
			newElement(elemHotel).attr(attrHotelID, b.HotelID).text(b.HotelName),
			newElement(elemCheckIn).text(b.CheckInDate),
			newElement(elemRoomNights).text(strconv.Itoa(b.RoomNights)),
		)
}

// FormatPrice renders a price the way the file has always stored it: whole
// amounts keep a trailing ".0" (100.0) and fractional ones use the shortest
// exact form (99.95).
func FormatPrice(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// ValidText reports whether s is valid UTF-8 made only of characters allowed
// by XML 1.0.  The encoder replaces anything else with U+FFFD, which would
// not survive a round trip.
func ValidText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return false
		}
	}
	return true
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
