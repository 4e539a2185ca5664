package model

// Booking is a single hotel reservation as stored in the bookings XML file.
// The JSON names are the camelCase names existing clients already send.
//
// Fields:
//  LocationNumber – booking key (location_number attribute).
//  ClientID       – client identifier (client/@id_client).
//  ClientName     – client display name (client text).
//  AgencyID       – agency identifier (agency/@id_agency).
//  AgencyName     – agency display name (agency text).
//  Price          – total price.
//  RoomType       – room type (room text and room/@id_type).
//  HotelID        – hotel identifier (hotel/@id_hotel).
//  HotelName      – hotel display name (hotel text).
//  CheckInDate    – check-in date kept as literal text.
//  RoomNights     – number of nights.
type Booking struct {
	LocationNumber string  `json:"locationNumber"`
	ClientID       string  `json:"clientId"`
	ClientName     string  `json:"clientName"`
	AgencyID       string  `json:"agencyId"`
	AgencyName     string  `json:"agencyName"`
	Price          float64 `json:"price"`
	RoomType       string  `json:"roomType"`
	HotelID        string  `json:"hotelId"`
	HotelName      string  `json:"hotelName"`
	CheckInDate    string  `json:"checkInDate"`
	RoomNights     int     `json:"roomNights"`
}

// ApplyPatch copies every field of p into b except LocationNumber, which is
// immutable once a booking exists.
func (b *Booking) ApplyPatch(p Booking) {
	b.ClientID = p.ClientID
	b.ClientName = p.ClientName
	b.AgencyID = p.AgencyID
	b.AgencyName = p.AgencyName
	b.Price = p.Price
	b.RoomType = p.RoomType
	b.HotelID = p.HotelID
	b.HotelName = p.HotelName
	b.CheckInDate = p.CheckInDate
	b.RoomNights = p.RoomNights
}
