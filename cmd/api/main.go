package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/clinicdesk/clinic-bookings/internal/handlers"
	"github.com/clinicdesk/clinic-bookings/internal/mailer"
	"github.com/clinicdesk/clinic-bookings/internal/notify"
	"github.com/clinicdesk/clinic-bookings/internal/repository"
	"github.com/clinicdesk/clinic-bookings/internal/service"
	"github.com/clinicdesk/clinic-bookings/pkg/config"
	"github.com/clinicdesk/clinic-bookings/pkg/database"
	"github.com/clinicdesk/clinic-bookings/pkg/events"
	"github.com/clinicdesk/clinic-bookings/pkg/logger"
	mw "github.com/clinicdesk/clinic-bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.NewLazy(cfg.Database)
	pool, err := db.Get(ctx)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories and services
	bookingRepo := repository.NewBookingRepository(pool)
	configRepo := repository.NewConfigRepository(pool)

	configService := service.NewConfigServiceWithDefault(configRepo, cfg.Booking.DefaultSlotsPerHour)
	bookingService := service.NewBookingService(bookingRepo, configService, eventBus)

	// Notify worker runs in-process, consuming booking events off the bus
	mail := mailer.NewFromConfig(cfg.Email)
	worker := notify.NewWorker(eventBus, mail)

	h := handlers.New(bookingService, configService, cfg.Admin.JWTSecret)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("bookings"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))

	if opts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
		store := mw.NewRedisIdempotencyStore(redis.NewClient(opts))
		r.Use(mw.Idempotency(store))
	} else {
		logger.Warn("Redis unavailable, idempotency replay disabled", "error", err)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.CreateBooking)
			r.Get("/counts", h.SlotCounts)
			r.Get("/{id}/cancel", h.CancellationPreview)
			r.Delete("/{id}", h.CancelBooking)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/bookings", h.ListAllBookings)
			r.Get("/config/{tenant}", h.GetTenantConfig)
			r.Put("/config/{tenant}", h.SetTenantConfig)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting bookings API", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := worker.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("Shutting down bookings API...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Bookings API error", "error", err)
		os.Exit(1)
	}
}
