package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/config"
	adminHandler "github.com/mediconnect/clinic-api/internal/handler/admin"
	doctorHandler "github.com/mediconnect/clinic-api/internal/handler/doctor"
	healthHandler "github.com/mediconnect/clinic-api/internal/handler/health"
	hospitalHandler "github.com/mediconnect/clinic-api/internal/handler/hospital"
	searchHandler "github.com/mediconnect/clinic-api/internal/handler/search"
	userHandler "github.com/mediconnect/clinic-api/internal/handler/user"
	"github.com/mediconnect/clinic-api/internal/middleware"
	"github.com/mediconnect/clinic-api/internal/repository/postgres"
	"github.com/mediconnect/clinic-api/internal/router"
	appointmentService "github.com/mediconnect/clinic-api/internal/service/appointment"
	authService "github.com/mediconnect/clinic-api/internal/service/auth"
	doctorService "github.com/mediconnect/clinic-api/internal/service/doctor"
	hospitalService "github.com/mediconnect/clinic-api/internal/service/hospital"
	"github.com/mediconnect/clinic-api/internal/service/notification"
	patientService "github.com/mediconnect/clinic-api/internal/service/patient"
	searchService "github.com/mediconnect/clinic-api/internal/service/search"
	"github.com/mediconnect/clinic-api/internal/worker"
	"github.com/mediconnect/clinic-api/pkg/auth"
	"github.com/mediconnect/clinic-api/pkg/cache"
	"github.com/mediconnect/clinic-api/pkg/imaging"
	"github.com/mediconnect/clinic-api/pkg/logger"
	"github.com/mediconnect/clinic-api/pkg/metrics"
	"github.com/mediconnect/clinic-api/pkg/security"
	"github.com/mediconnect/clinic-api/pkg/websearch"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	doctorRepo := postgres.NewDoctorRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	slotRepo := postgres.NewSlotRepository(db)

	uploader, err := imaging.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image uploader")
	}

	var cacheStore *cache.Store
	if cfg.Redis.URL != "" {
		cacheStore, err = cache.NewStore(cache.Config{
			URL:          cfg.Redis.URL,
			TTL:          cfg.Redis.TTL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, logger.Component(log, "cache"))
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, directory cache disabled")
			cacheStore = nil
		}
	}
	defer cacheStore.Close()

	notifier := notification.NewService(notification.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	webClient := websearch.NewClient(websearch.Config{
		APIKey:   cfg.Search.GoogleAPIKey,
		EngineID: cfg.Search.GoogleEngineID,
		Timeout:  cfg.Search.Timeout,
		CacheTTL: cfg.Search.CacheTTL,
	}, logger.Component(log, "websearch"))

	m := metrics.New("clinic")

	tokens := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(12)

	doctorSvc := doctorService.NewService(
		doctorRepo, hospitalRepo, appointmentRepo, slotRepo,
		uploader, hasher, cacheStore, logger.Component(log, "doctor"),
	)
	hospitalSvc := hospitalService.NewService(hospitalRepo, uploader, logger.Component(log, "hospital"))
	patientSvc := patientService.NewService(patientRepo, hasher, logger.Component(log, "patient"))
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, slotRepo, doctorRepo, patientRepo,
		notifier, m, logger.Component(log, "appointment"),
	)
	authSvc := authService.NewService(doctorRepo, patientRepo, tokens, hasher, authService.AdminCredentials{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, logger.Component(log, "auth"))
	searchSvc := searchService.NewService(doctorRepo, hospitalRepo, webClient, m, logger.Component(log, "search"))

	authMw := middleware.NewAuthMiddleware(tokens)

	r := router.New(
		authMw,
		healthHandler.NewHandler(db),
		adminHandler.NewHandler(authSvc, doctorSvc, hospitalSvc, appointmentSvc),
		doctorHandler.NewHandler(authSvc, doctorSvc, appointmentSvc),
		hospitalHandler.NewHandler(hospitalSvc),
		userHandler.NewHandler(authSvc, patientSvc, appointmentSvc),
		searchHandler.NewHandler(searchSvc),
		m,
		log,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst:   cfg.RateLimit.Burst,
			CORS: middleware.CORSConfig{
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				AllowedMethods: cfg.CORS.AllowedMethods,
				AllowedHeaders: cfg.CORS.AllowedHeaders,
			},
			RequestTimeout: 30 * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	cleanup := worker.NewLedgerCleanupWorker(slotRepo, 14, 24*time.Hour, logger.Component(log, "ledger-cleanup"))
	go cleanup.Start(workerCtx)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
