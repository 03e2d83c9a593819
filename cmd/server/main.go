package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"parispub/internal/api"
	"parispub/internal/config"
	"parispub/internal/events"
	"parispub/internal/metrics"
	"parispub/internal/repository"
	"parispub/internal/service"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open DB")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	metrics.Register()

	var publisher service.EventPublisher
	if cfg.NATSURL != "" {
		nc, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("booking events disabled")
		} else {
			defer nc.Close()
			publisher = nc
		}
	}

	notifiers := service.NotifiersFromConfig(cfg, &logger)
	if len(notifiers) == 0 {
		logger.Warn().Msg("no notification channel configured, confirmations will not be sent")
	}
	sender := service.NewSenderService(notifiers, publisher, cfg.NotifyRatePerSec, 100, &logger)

	clock := service.RealClock{}
	policy := service.NewDayPolicy(cfg.WeeklyHours, cfg.Booking, clock)

	reservationRepo := repository.NewReservationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	jobRepo := repository.NewJobRepository(db)

	reservationSvc := service.NewReservationService(reservationRepo, policy, cfg, sender, &logger)
	adminSvc := service.NewAdminService(adminRepo, &logger)
	jobSvc := service.NewJobService(jobRepo, clock, &logger)

	authSvc, err := service.NewAdminAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up admin auth")
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.PurgeCron, func() {
		if _, err := jobSvc.PurgeExpiredReservations(context.Background()); err != nil {
			logger.Error().Err(err).Msg("retention purge failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.PurgeCron).Msg("invalid PURGE_CRON")
	}
	c.Start()

	router := api.NewRouter(api.RouterConfig{
		Reservations: api.NewUserReservationHandler(reservationSvc, &logger),
		Admin:        api.NewAdminHandler(adminSvc, &logger),
		AdminAuth:    api.NewAdminAuthHandler(authSvc),
		Tokens:       authSvc,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       &logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("profile", string(cfg.Profile)).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	<-c.Stop().Done()
	if err := sender.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("confirmation queue not fully drained")
	}
}
