package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elev8sports/elev8-api/internal/api/rest"
	"github.com/elev8sports/elev8-api/internal/api/websocket"
	"github.com/elev8sports/elev8-api/internal/auth"
	"github.com/elev8sports/elev8-api/internal/cache"
	"github.com/elev8sports/elev8-api/internal/config"
	"github.com/elev8sports/elev8-api/internal/logger"
	"github.com/elev8sports/elev8-api/internal/publisher"
	"github.com/elev8sports/elev8-api/internal/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "elev8-api"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	log.WithFields(logrus.Fields{
		"version":     serviceVersion,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", serviceName)

	// Database
	db, err := store.NewDatabase(cfg.Database.DSN, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Redis cache and stream publisher, with retry so the service
	// survives Redis coming up after it in docker compose.
	redisCache := connectCache(cfg.Redis.URL, log)
	defer redisCache.Close()
	log.Info("Connected to Redis")

	redisPublisher := connectPublisher(cfg.Redis.URL, log)
	defer redisPublisher.Close()
	log.Info("Redis publisher initialized")

	verifier := auth.NewHMACVerifier(cfg.Auth.Secret, cfg.Auth.AdminEmails)

	// REST API server
	restServer := rest.NewServer(cfg.App.RESTPort, db, redisCache, redisPublisher, verifier, log)
	go func() {
		if err := restServer.Start(); err != nil {
			log.WithError(err).Error("REST server stopped")
		}
	}()
	log.WithField("port", cfg.App.RESTPort).Info("REST API server listening")

	// WebSocket server relaying completed-import events
	wsServer := websocket.NewServer(redisCache, log)
	go func() {
		if err := wsServer.Start(cfg.App.WSPort); err != nil {
			log.WithError(err).Error("WebSocket server stopped")
		}
	}()
	log.WithField("port", cfg.App.WSPort).Info("WebSocket server listening")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("REST server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("WebSocket server shutdown error")
	}

	log.Infof("%s stopped", serviceName)
}

const (
	redisMaxRetries = 30
	redisRetryDelay = 2 * time.Second
)

func connectCache(redisURL string, log *logrus.Logger) *cache.RedisCache {
	for attempt := 1; ; attempt++ {
		rc, err := cache.NewRedisCache(redisURL)
		if err == nil {
			return rc
		}
		if attempt >= redisMaxRetries {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", attempt, err)
		}
		log.WithError(err).Warnf("Redis connection attempt %d/%d failed, retrying in %v", attempt, redisMaxRetries, redisRetryDelay)
		time.Sleep(redisRetryDelay)
	}
}

func connectPublisher(redisURL string, log *logrus.Logger) *publisher.RedisPublisher {
	for attempt := 1; ; attempt++ {
		pub, err := publisher.NewRedisPublisher(redisURL)
		if err == nil {
			return pub
		}
		if attempt >= redisMaxRetries {
			log.Fatalf("Failed to initialize Redis publisher after %d attempts: %v", attempt, err)
		}
		log.WithError(err).Warnf("Redis publisher attempt %d/%d failed, retrying in %v", attempt, redisMaxRetries, redisRetryDelay)
		time.Sleep(redisRetryDelay)
	}
}
