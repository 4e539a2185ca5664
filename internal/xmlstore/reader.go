package xmlstore

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

// ReadFile opens path and decodes the bookings it contains.  A missing file
// is reported with the os error so callers can test for fs.ErrNotExist.
func ReadFile(path string) ([]model.Booking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bookings file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a <bookings> document token by token.  A Booking is started
// on every <booking> element, filled in from the nested field elements and
// appended to the result when </booking> is reached.  Unknown elements are
// ignored.
func Decode(r io.Reader) ([]model.Booking, error) {
	d := decoder{dec: xml.NewDecoder(r)}
	return d.run()
}

type decoder struct {
	dec      *xml.Decoder
	depth    int
	sawRoot  bool
	cur      *model.Booking
	roomAttr string
	text     strings.Builder
	out      []model.Booking
}

func (d *decoder) run() ([]model.Booking, error) {
	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.start(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := d.end(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if d.cur != nil && d.depth == 3 {
				d.text.Write(t)
			}
		}
	}
	if !d.sawRoot {
		return nil, fmt.Errorf("%w: missing <%s> root element", ErrParse, elemBookings)
	}
	if d.out == nil {
		d.out = []model.Booking{}
	}
	return d.out, nil
}

func (d *decoder) start(se xml.StartElement) error {
	d.depth++
	name := se.Name.Local
	switch d.depth {
	case 1:
		if name != elemBookings {
			return d.errorf("root element is <%s>, want <%s>", name, elemBookings)
		}
		d.sawRoot = true
	case 2:
		if name == elemBooking {
			d.cur = &model.Booking{LocationNumber: attrValue(se, attrLocationNumber)}
			d.roomAttr = ""
		}
	case 3:
		if d.cur == nil {
			return nil
		}
		d.text.Reset()
		switch name {
		case elemClient:
			d.cur.ClientID = attrValue(se, attrClientID)
		case elemAgency:
			d.cur.AgencyID = attrValue(se, attrAgencyID)
		case elemRoom:
			d.roomAttr = attrValue(se, attrRoomType)
		case elemHotel:
			d.cur.HotelID = attrValue(se, attrHotelID)
		}
	}
	return nil
}

func (d *decoder) end(ee xml.EndElement) error {
	defer func() { d.depth-- }()
	if d.cur == nil {
		return nil
	}
	name := ee.Name.Local
	switch d.depth {
	case 2:
		if name == elemBooking {
			d.out = append(d.out, *d.cur)
			d.cur = nil
		}
	case 3:
		s := d.text.String()
		switch name {
		case elemClient:
			d.cur.ClientName = s
		case elemAgency:
			d.cur.AgencyName = s
		case elemPrice:
			p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return d.errorf("booking %q: invalid price %q", d.cur.LocationNumber, s)
			}
			d.cur.Price = p
		case elemRoom:
			if s == "" {
				s = d.roomAttr
			}
			d.cur.RoomType = s
		case elemHotel:
			d.cur.HotelName = s
		case elemCheckIn:
			d.cur.CheckInDate = s
		case elemRoomNights:
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return d.errorf("booking %q: invalid room nights %q", d.cur.LocationNumber, s)
			}
			d.cur.RoomNights = n
		}
	}
	return nil
}

func (d *decoder) errorf(format string, args ...any) error {
	line, _ := d.dec.InputPos()
	return fmt.Errorf("%w: line %d: %s", ErrParse, line, fmt.Sprintf(format, args...))
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
