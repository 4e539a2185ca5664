package repository

import (
	"fmt"
	"sync"

	"github.com/iliyamo/hotel-booking-data/internal/model"
	"github.com/iliyamo/hotel-booking-data/internal/xmlstore"
)

// BookingRepo keeps the working set of bookings in memory and mirrors it to
// a single XML file.  Every mutation rewrites the whole file and then reloads
// the list from it, so what is served always matches what is on disk.  A
// single mutex serialises all operations, including the full
// modify-persist-reload cycle.
type BookingRepo struct {
	mu       sync.Mutex
	path     string
	bookings []model.Booking
}

// NewBookingRepo constructs a BookingRepo backed by the file at path.  The
// list starts empty; call Load to read the file.
func NewBookingRepo(path string) *BookingRepo {
	return &BookingRepo{path: path, bookings: []model.Booking{}}
}

// Path returns the backing file location.
func (r *BookingRepo) Path() string { return r.path }

// Load replaces the in-memory list with the contents of the backing file.
// On failure the previous list is kept and the returned error wraps ErrLoad.
func (r *BookingRepo) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *BookingRepo) load() error {
	bookings, err := xmlstore.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("%w from %s: %w", ErrLoad, r.path, err)
	}
	r.bookings = bookings
	return nil
}

// persist writes next to the backing file and reloads it.  If the write
// fails the in-memory list is left untouched.  If the write succeeds but the
// reload fails, the file already holds next while memory keeps the previous
// list until the next successful Load or mutation; the ErrLoad error is
// returned so the caller reports the failure.
func (r *BookingRepo) persist(next []model.Booking) error {
	if err := xmlstore.WriteFile(r.path, next); err != nil {
		return err
	}
	return r.load()
}

// List returns a copy of the current bookings in file order.
func (r *BookingRepo) List() []model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *BookingRepo) snapshot() []model.Booking {
	out := make([]model.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}

// Add appends b, persists the list and returns b.  Duplicate location
// numbers are accepted; Update only ever touches the first of them while
// Remove deletes them all.
func (r *BookingRepo) Add(b model.Booking) (model.Booking, error) {
	if b.LocationNumber == "" {
		return model.Booking{}, ErrMissingLocationNumber
	}
	if err := checkText(b); err != nil {
		return model.Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(r.snapshot(), b)
	if err := r.persist(next); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// Update copies every field of patch except the location number into the
// first booking whose location number equals id, persists the list and
// returns all bookings.
func (r *BookingRepo) Update(id string, patch *model.Booking) ([]model.Booking, error) {
	if patch == nil {
		return nil, ErrEmptyPatch
	}
	if err := checkText(*patch); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshot()
	idx := -1
	for i := range next {
		if next[i].LocationNumber == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	next[idx].ApplyPatch(*patch)

	if err := r.persist(next); err != nil {
		return nil, err
	}
	return r.snapshot(), nil
}

// Remove deletes every booking whose location number equals id and returns
// how many were removed.  The file is rewritten only when something matched.
func (r *BookingRepo) Remove(id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if b.LocationNumber != id {
			next = append(next, b)
		}
	}
	removed := len(r.bookings) - len(next)
	if removed == 0 {
		return 0, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if err := r.persist(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// checkText rejects string fields the XML file cannot hold verbatim.
func checkText(b model.Booking) error {
	fields := []struct{ name, value string }{
		{"locationNumber", b.LocationNumber},
		{"clientId", b.ClientID},
		{"clientName", b.ClientName},
		{"agencyId", b.AgencyID},
		{"agencyName", b.AgencyName},
		{"roomType", b.RoomType},
		{"hotelId", b.HotelID},
		{"hotelName", b.HotelName},
		{"checkInDate", b.CheckInDate},
	}
	for _, f := range fields {
		if !xmlstore.ValidText(f.value) {
			return fmt.Errorf("%w: %s", ErrInvalidText, f.name)
		}
	}
	return nil
}
