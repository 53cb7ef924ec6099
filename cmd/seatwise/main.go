package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"seatwise/internal/booking"
	"seatwise/internal/config"
	"seatwise/internal/http-server/handlers/admin/listAllBookings"
	"seatwise/internal/http-server/handlers/admin/listAllEvents"
	"seatwise/internal/http-server/handlers/admin/setEventStatus"
	"seatwise/internal/http-server/handlers/admin/setUserRole"
	"seatwise/internal/http-server/handlers/auth/login"
	"seatwise/internal/http-server/handlers/auth/register"
	"seatwise/internal/http-server/handlers/booking/cancelBooking"
	"seatwise/internal/http-server/handlers/booking/createBooking"
	"seatwise/internal/http-server/handlers/booking/listMyBookings"
	"seatwise/internal/http-server/handlers/event/createEvent"
	"seatwise/internal/http-server/handlers/event/deleteEvent"
	"seatwise/internal/http-server/handlers/event/getEvent"
	"seatwise/internal/http-server/handlers/event/listEvents"
	"seatwise/internal/http-server/handlers/event/listMyEvents"
	"seatwise/internal/http-server/handlers/event/updateEvent"
	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/http-server/middleware/cache"
	"seatwise/internal/http-server/middleware/mwlogger"
	"seatwise/internal/lib/logger/handlers/slogpretty"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage/postgres"
	"seatwise/internal/ticket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting seatwise", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	rdb := setupCache(log, cfg.Cache)

	bookings := booking.New(log, storage, storage, storage, ticket.NewIssuer())

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/auth/register", register.New(log, storage, cfg.Auth))
	router.Post("/auth/login", login.New(log, storage, cfg.Auth))

	router.With(cache.New(log, rdb, cfg.Cache.TTL)).Get("/events", listEvents.New(log, storage))
	router.Get("/events/{id}", getEvent.New(log, storage))

	router.Group(func(r chi.Router) {
		r.Use(auth.JWT(cfg.Auth.Secret, log))

		r.With(auth.RequireRole(models.RoleOrganizer, models.RoleAdmin)).Group(func(r chi.Router) {
			r.Post("/events", createEvent.New(log, storage))
			r.Get("/events/user/my", listMyEvents.New(log, storage))
			r.Put("/events/{id}", updateEvent.New(log, storage))
			r.Delete("/events/{id}", deleteEvent.New(log, storage))
		})

		r.Post("/bookings", createBooking.New(log, bookings))
		r.Get("/bookings/my", listMyBookings.New(log, storage))
		r.Delete("/bookings/{id}", cancelBooking.New(log, bookings))

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Get("/events", listAllEvents.New(log, storage))
			r.Patch("/events/{id}/status", setEventStatus.New(log, storage))
			r.Get("/bookings", listAllBookings.New(log, storage))
			r.Patch("/users/{id}/role", setUserRole.New(log, storage))
		})
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if rdb != nil {
		if err = rdb.Close(); err != nil {
			log.Error("failed to close redis connection", sl.Err(err))
		}
	}

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

// setupCache connects to Redis if an address is configured. The cache is an
// optional layer: on any failure we log and run without it.
func setupCache(log *slog.Logger, cfg config.Cache) *redis.Client {
	if cfg.Address == "" {
		log.Info("response cache disabled: no redis address configured")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Address})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unreachable, running without response cache", sl.Err(err))
		_ = rdb.Close()
		return nil
	}

	log.Info("response cache enabled", slog.String("address", cfg.Address))

	return rdb
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
