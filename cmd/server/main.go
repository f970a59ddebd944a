package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv" // .env loading for local runs

	"github.com/iliyamo/hotel-booking-api/internal/config"     // Internal config loader
	"github.com/iliyamo/hotel-booking-api/internal/database"   // MySQL pool
	"github.com/iliyamo/hotel-booking-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hotel-booking-api/internal/logger"     // slog setup
	"github.com/iliyamo/hotel-booking-api/internal/metrics"    // Prometheus collectors
	"github.com/iliyamo/hotel-booking-api/internal/queue"      // booking event consumer
	"github.com/iliyamo/hotel-booking-api/internal/repository" // data access
	"github.com/iliyamo/hotel-booking-api/internal/router"     // Internal router setup
	queue_publisher "github.com/iliyamo/hotel-booking-api/internal/service"
	"github.com/iliyamo/hotel-booking-api/internal/storage" // avatar files
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment may already be set

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable; cache and rate limit disabled", "error", err)
	} else {
		defer rdb.Close()
	}

	store, err := storage.NewAvatarStore(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("upload directory unavailable", "error", err)
	}

	m := metrics.New()

	var events handler.EventPublisher
	if cfg.RabbitURL != "" {
		pub := queue_publisher.New(cfg.RabbitURL)
		defer pub.Close()
		events = pub
		if cfg.BookingConsumerEnabled {
			go func() {
				if err := queue.StartBookingConsumer(ctx, cfg.RabbitURL, cfg.BookingLogDir); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("booking consumer stopped", "error", err)
				}
			}()
		}
	} else {
		log.Info("RABBITMQ_URL not set; booking events disabled")
	}

	users := repository.NewUserRepo(db)
	bookings := repository.NewBookingRepo(db)
	msgs := repository.NewMessageRepo(db)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, db, users, repository.NewSignupCodeRepo(db)),
		Profile:    handler.NewProfileHandler(cfg, users),
		Hotels:     handler.NewHotelHandler(repository.NewHotelRepo(db)),
		Bookings:   handler.NewBookingHandler(db, bookings, msgs, users, events, m),
		Favourites: handler.NewFavouriteHandler(repository.NewFavouriteRepo(db)),
		Messages:   handler.NewMessageHandler(msgs),
		Uploads:    handler.NewUploadHandler(users, store, cfg.Upload.MaxBytes, m),
	}
	opts := router.Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		DB:        db,
		Metrics:   m,
	}

	e := router.NewEcho(cfg, m)
	router.RegisterRoutes(e, h, opts)
	router.RegisterAPI(e, h, opts)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
