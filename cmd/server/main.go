package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-data/internal/config"
	"github.com/iliyamo/hotel-booking-data/internal/database"
	"github.com/iliyamo/hotel-booking-data/internal/handler"
	"github.com/iliyamo/hotel-booking-data/internal/logger"
	"github.com/iliyamo/hotel-booking-data/internal/middleware"
	q "github.com/iliyamo/hotel-booking-data/internal/queue"
	"github.com/iliyamo/hotel-booking-data/internal/repository"
	"github.com/iliyamo/hotel-booking-data/internal/router"
	"github.com/iliyamo/hotel-booking-data/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "hotel-booking-data")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bookings store.  A load failure either aborts startup or leaves the
	// store empty, depending on BOOKINGS_STRICT_LOAD.
	store := repository.NewBookingRepo(cfg.BookingsFile)
	if err := store.Load(); err != nil {
		if cfg.StrictLoad {
			log.Fatal("load bookings", zap.String("file", cfg.BookingsFile), zap.Error(err))
		}
		log.Warn("starting with an empty booking list", zap.String("file", cfg.BookingsFile), zap.Error(err))
	} else {
		log.Info("bookings loaded", zap.String("file", cfg.BookingsFile), zap.Int("count", len(store.List())))
	}

	// Redis is optional: nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var publisher handler.ChangePublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = service.NewEventPublisher(cfg.Events.URL, log)
	}

	var audit *repository.AuditRepo
	if cfg.AuditDB.Enabled() {
		db, err := database.Open(cfg.AuditDB)
		if err != nil {
			log.Fatal("open audit database", zap.Error(err))
		}
		defer db.Close()
		audit = repository.NewAuditRepo(db)
		if err := audit.EnsureSchema(ctx); err != nil {
			log.Fatal("create audit schema", zap.Error(err))
		}
	}

	if cfg.Events.Enabled && cfg.Events.RunConsumer {
		recorders := []q.Recorder{&q.FileRecorder{Dir: cfg.Events.LogDir}}
		if audit != nil {
			recorders = append(recorders, q.DBRecorder{Repo: audit})
		}
		consumer := q.NewConsumer(cfg.Events.URL, log, recorders...)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	cacheCfg := config.LoadCacheConfig()
	bookings := router.RegisterBookings(e, handler.NewBookingHandler(store, publisher, log), router.BookingMiddleware{
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.InvalidateCache(cacheCfg, rdb, log),
		Group:      []echo.MiddlewareFunc{middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)},
	})
	if audit != nil {
		router.RegisterAudit(bookings, &handler.AuditHandler{Repo: audit, Log: log})
	}
	router.RegisterRoutes(e) // Register health check

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
