package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ifex-stack/kickbook-sub000/docs"

	"github.com/ifex-stack/kickbook-sub000/internal/config"
	"github.com/ifex-stack/kickbook-sub000/internal/db"
	"github.com/ifex-stack/kickbook-sub000/internal/logger"
	"github.com/ifex-stack/kickbook-sub000/internal/notification"
	"github.com/ifex-stack/kickbook-sub000/internal/server"
	"github.com/ifex-stack/kickbook-sub000/internal/user"
	"github.com/ifex-stack/kickbook-sub000/internal/weather"

	"github.com/redis/go-redis/v9"
)

// @title KickBook API
// @version 1.0
// @description API for football team management, credit-based match booking, and player stats.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting KickBook application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	notifService := notification.New(
		notification.NewRepository(database),
		user.NewRepository(database),
		redisClient,
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
	)
	defer notifService.Close()
	logger.Info("Notification service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifService.Start(ctx)

	forecaster := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherLat, cfg.WeatherLon)

	srv := server.New(database, cfg, notifService, forecaster)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
