package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-data/internal/model"
	"github.com/iliyamo/hotel-booking-data/internal/xmlstore"
)

func booking(id, client string, price float64, nights int) model.Booking {
	return model.Booking{
		LocationNumber: id,
		ClientID:       "C-" + client,
		ClientName:     client,
		AgencyID:       "A1",
		AgencyName:     "Sunny Travel",
		Price:          price,
		RoomType:       "Double",
		HotelID:        "H1",
		HotelName:      "Hotel Mar",
		CheckInDate:    "2024-05-01",
		RoomNights:     nights,
	}
}

// newRepo writes seed to a fresh file and returns a loaded repository.
func newRepo(t *testing.T, seed ...model.Booking) *BookingRepo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookings.xml")
	require.NoError(t, xmlstore.WriteFile(path, seed))
	r := NewBookingRepo(path)
	require.NoError(t, r.Load())
	return r
}

func fileContents(t *testing.T, r *BookingRepo) []model.Booking {
	t.Helper()
	got, err := xmlstore.ReadFile(r.Path())
	require.NoError(t, err)
	return got
}

func TestLoad_MissingFile(t *testing.T) {
	r := NewBookingRepo(filepath.Join(t.TempDir(), "bookings.xml"))
	err := r.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, r.List())
}

func TestLoad_MalformedKeepsPreviousList(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	require.NoError(t, os.WriteFile(r.Path(), []byte("<bookings><booking>"), 0o644))

	err := r.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.True(t, errors.Is(err, xmlstore.ErrParse))
	assert.Len(t, r.List(), 1)
}

func TestAdd_AppendsAtTail(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	b := booking("L2", "Bob", 80.5, 2)

	created, err := r.Add(b)
	require.NoError(t, err)
	assert.Equal(t, b, created)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, b, list[1])
	assert.Equal(t, list, fileContents(t, r))
}

func TestAdd_CreatesMissingFile(t *testing.T) {
	r := NewBookingRepo(filepath.Join(t.TempDir(), "bookings.xml"))
	require.Error(t, r.Load())

	_, err := r.Add(booking("L1", "Alice", 100, 3))
	require.NoError(t, err)
	assert.Len(t, fileContents(t, r), 1)
}

func TestAdd_DuplicateKeyAccepted(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	_, err := r.Add(booking("L1", "Bob", 50, 1))
	require.NoError(t, err)
	assert.Len(t, r.List(), 2)
}

func TestAdd_RequiresLocationNumber(t *testing.T) {
	r := newRepo(t)
	_, err := r.Add(booking("", "Alice", 100, 3))
	assert.ErrorIs(t, err, ErrMissingLocationNumber)
	assert.Empty(t, r.List())
}

func TestAdd_WriteFailureLeavesListUnchanged(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	r.path = filepath.Join(t.TempDir(), "gone", "bookings.xml")

	_, err := r.Add(booking("L2", "Bob", 50, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, xmlstore.ErrWrite))
	assert.Len(t, r.List(), 1)
}

func TestUpdate_ReplacesAllButKey(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))

	patch := booking("IGNORED", "Bob", 150, 3)
	list, err := r.Update("L1", &patch)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "L1", list[0].LocationNumber)
	assert.Equal(t, "Bob", list[0].ClientName)
	assert.Equal(t, 150.0, list[0].Price)
	assert.Equal(t, 3, list[0].RoomNights)
	assert.Equal(t, list, r.List())
	assert.Equal(t, list, fileContents(t, r))
}

func TestUpdate_ZeroValuesOverwrite(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	list, err := r.Update("L1", &model.Booking{ClientName: "Carol"})
	require.NoError(t, err)
	assert.Equal(t, model.Booking{LocationNumber: "L1", ClientName: "Carol"}, list[0])
}

func TestUpdate_FirstMatchOnly(t *testing.T) {
	r := newRepo(t, booking("DUP", "Alice", 100, 3), booking("DUP", "Bob", 50, 1))
	patch := booking("DUP", "Carol", 10, 1)

	list, err := r.Update("DUP", &patch)
	require.NoError(t, err)
	assert.Equal(t, "Carol", list[0].ClientName)
	assert.Equal(t, "Bob", list[1].ClientName)
}

func TestUpdate_NotFound(t *testing.T) {
	seed := booking("L1", "Alice", 100, 3)
	r := newRepo(t, seed)
	patch := booking("L9", "Bob", 1, 1)

	_, err := r.Update("L9", &patch)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, []model.Booking{seed}, r.List())
}

func TestUpdate_NilPatch(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	_, err := r.Update("L1", nil)
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestRemove_RemovesAllMatches(t *testing.T) {
	a := booking("A", "Alice", 1, 1)
	c := booking("C", "Carol", 3, 3)
	r := newRepo(t, booking("DUP", "Bob", 2, 2), a, booking("DUP", "Dan", 4, 4), c)

	n, err := r.Remove("DUP")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []model.Booking{a, c}, r.List())
	assert.Equal(t, []model.Booking{a, c}, fileContents(t, r))
}

func TestRemove_NotFoundOnEmptyStore(t *testing.T) {
	r := newRepo(t)
	_, err := r.Remove("X")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, r.List())
}

func TestList_ReturnsCopy(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))
	list := r.List()
	list[0].ClientName = "Mallory"
	assert.Equal(t, "Alice", r.List()[0].ClientName)
}

func TestAdd_RejectsTextXMLCannotHold(t *testing.T) {
	r := newRepo(t, booking("L1", "Alice", 100, 3))

	bad := booking("L2", "Bob\x01", 1, 1)
	_, err := r.Add(bad)
	assert.ErrorIs(t, err, ErrInvalidText)

	bad = booking("L2", "Bob", 1, 1)
	bad.HotelName = "Hotel \xff"
	_, err = r.Add(bad)
	assert.ErrorIs(t, err, ErrInvalidText)

	assert.Len(t, r.List(), 1)
	assert.Len(t, fileContents(t, r), 1)
}

func TestUpdate_RejectsTextXMLCannotHold(t *testing.T) {
	seed := booking("L1", "Alice", 100, 3)
	r := newRepo(t, seed)

	patch := booking("L1", "Bob", 1, 1)
	patch.AgencyName = "Nord\x00"
	_, err := r.Update("L1", &patch)
	assert.ErrorIs(t, err, ErrInvalidText)
	assert.Equal(t, []model.Booking{seed}, r.List())
}

func TestConcurrentMutationsAreSerialised(t *testing.T) {
	const n = 24
	r := newRepo(t)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_, err := r.Add(booking("L"+strconv.Itoa(i), "Client", float64(i), i))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
		go func(i int) {
			defer wg.Done()
			patch := booking("ignored", "Updated", float64(i), i)
			if _, err := r.Update("L0", &patch); err != nil {
				assert.ErrorIs(t, err, ErrBookingNotFound)
			}
		}(i)
	}
	wg.Wait()

	ids := func(list []model.Booking) []string {
		out := make([]string, 0, len(list))
		for _, b := range list {
			out = append(out, b.LocationNumber)
		}
		sort.Strings(out)
		return out
	}
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		want = append(want, "L"+strconv.Itoa(i))
	}
	sort.Strings(want)

	mem := r.List()
	require.Len(t, mem, n)
	assert.Equal(t, want, ids(mem))
	assert.Equal(t, mem, fileContents(t, r))
}
