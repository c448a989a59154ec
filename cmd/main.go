package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sportsys/tournament-admin/config"
	"github.com/sportsys/tournament-admin/db"
	"github.com/sportsys/tournament-admin/handlers"
	"github.com/sportsys/tournament-admin/live"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/routes"
	"github.com/sportsys/tournament-admin/services"
	"github.com/sportsys/tournament-admin/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Хранилище логотипов опционально: без него API работает, а загрузка
	// логотипов отвечает 501.
	var uploader storage.FileUploader
	if cfg.StorageConfigured() {
		uploader, err = storage.NewS3Uploader(context.Background(), storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			BucketName:      cfg.S3BucketName,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize S3 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("S3 uploader initialized")
	} else {
		logger.Warn("file storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	txManager := repositories.NewTxManager(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logRepo := repositories.NewPostgresGameLogRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)

	authService := services.NewAuthService(adminRepo, cfg.JWTSecretKey)
	eventService := services.NewEventService(eventRepo, uploader)
	playerService := services.NewPlayerService(playerRepo, uploader)
	teamService := services.NewTeamService(txManager, teamRepo, uploader)
	venueService := services.NewVenueService(venueRepo)
	registrationService := services.NewRegistrationService(txManager, regRepo, eventRepo, hub)
	matchService := services.NewMatchService(txManager, matchRepo, eventRepo, logRepo, hub)
	statsService := services.NewStatsService(statsRepo, eventRepo)
	logger.Info("services initialized")

	router := routes.SetupRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Event:        handlers.NewEventHandler(eventService),
		Player:       handlers.NewPlayerHandler(playerService),
		Team:         handlers.NewTeamHandler(teamService),
		Venue:        handlers.NewVenueHandler(venueService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Match:        handlers.NewMatchHandler(matchService),
		Stats:        handlers.NewStatsHandler(statsService, dbConn),
		WebSocket:    handlers.NewWebSocketHandler(hub, eventService, logger),
	}, authService, cfg.CORSOrigin)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
