package router

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-data/internal/config"
	"github.com/iliyamo/hotel-booking-data/internal/handler"
	"github.com/iliyamo/hotel-booking-data/internal/middleware"
	"github.com/iliyamo/hotel-booking-data/internal/model"
	"github.com/iliyamo/hotel-booking-data/internal/repository"
	"github.com/iliyamo/hotel-booking-data/internal/service"
)

func newServer(t *testing.T, mw BookingMiddleware) *echo.Echo {
	t.Helper()
	return newServerWith(t, repository.NewBookingRepo(filepath.Join(t.TempDir(), "bookings.xml")), mw)
}

func newServerWith(t *testing.T, store handler.BookingStore, mw BookingMiddleware) *echo.Echo {
	t.Helper()
	h := handler.NewBookingHandler(store, service.NopPublisher{}, zap.NewNop())

	e := echo.New()
	RegisterRoutes(e)
	RegisterBookings(e, h, mw)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_Health(t *testing.T) {
	e := newServer(t, BookingMiddleware{})
	w := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterBookings_WithoutMiddleware(t *testing.T) {
	e := newServer(t, BookingMiddleware{})

	w := do(e, http.MethodPost, "/bookings-data/post", `{"locationNumber":"L1","clientName":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(e, http.MethodGet, "/bookings-data/get", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientName":"Alice"`)

	w = do(e, http.MethodDelete, "/bookings-data/delete/L1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRegisterBookings_CacheInvalidatedByWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "bookings-cache",
		MaxBodyBytes: 1 << 20,
	}
	e := newServer(t, BookingMiddleware{
		Cache:      middleware.NewRedisCache(cfg, rdb),
		Invalidate: middleware.InvalidateCache(cfg, rdb, zap.NewNop()),
	})

	w := do(e, http.MethodGet, "/bookings-data/get", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(e, http.MethodPost, "/bookings-data/post", `{"locationNumber":"L1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(e, http.MethodGet, "/bookings-data/get", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"locationNumber":"L1"`)
}

// stallingStore holds the first List call after reading the store until
// release is closed.
type stallingStore struct {
	*repository.BookingRepo
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *stallingStore) List() []model.Booking {
	list := s.BookingRepo.List()
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return list
}

func TestRegisterBookings_ListReadDuringWriteIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "bookings-cache",
		MaxBodyBytes: 1 << 20,
	}
	store := &stallingStore{
		BookingRepo: repository.NewBookingRepo(filepath.Join(t.TempDir(), "bookings.xml")),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	e := newServerWith(t, store, BookingMiddleware{
		Cache:      middleware.NewRedisCache(cfg, rdb),
		Invalidate: middleware.InvalidateCache(cfg, rdb, zap.NewNop()),
	})

	stale := make(chan *httptest.ResponseRecorder)
	go func() { stale <- do(e, http.MethodGet, "/bookings-data/get", "") }()
	<-store.entered

	w := do(e, http.MethodPost, "/bookings-data/post", `{"locationNumber":"L1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	close(store.release)
	assert.JSONEq(t, `[]`, (<-stale).Body.String())

	for i := 0; i < 2; i++ {
		w = do(e, http.MethodGet, "/bookings-data/get", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"locationNumber":"L1"`)
	}
}
