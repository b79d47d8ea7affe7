// Package main initializes and starts the portfolio API server, setting up
// configuration, logging, database and object-storage connections,
// repositories, services, and handlers.
package main

import (
	"context"
	"fmt"

	nethttp "net/http"

	"github.com/deokslife/portfolio-api/internal/config"
	"github.com/deokslife/portfolio-api/internal/db"
	"github.com/deokslife/portfolio-api/internal/logger"
	"github.com/deokslife/portfolio-api/internal/repository"
	"github.com/deokslife/portfolio-api/internal/server/handler/http"
	"github.com/deokslife/portfolio-api/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	if version == "" {
		version = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", buildDate)

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize object storage.
	s3Client, err := service.NewS3Client(context.Background(), options)
	if err != nil {
		zapLogger.Fatal("cannot init object storage client", zap.Error(err))
	}

	// Initialize repositories for apps and admin settings.
	appRepo := repository.NewPostgresAppRepository(postgresDB)
	settingsRepo := repository.NewPostgresSettingsRepository(postgresDB)

	// Initialize business-logic services.
	credentialService := service.NewCredentialService(settingsRepo, options.InitialAdminPassword, zapLogger)
	storageService := service.NewStorageService(s3Client, options.S3PublicBaseURL, zapLogger)
	appService := service.NewAppService(appRepo, credentialService, storageService, zapLogger)

	// Buckets are pre-provisioned in production; this covers fresh local stores.
	if err := storageService.EnsureBuckets(context.Background()); err != nil {
		zapLogger.Warn("could not ensure storage buckets", zap.Error(err))
	}

	// Create HTTP handlers.
	appHandler := &http.AppHandler{AppService: appService}
	authHandler := &http.AuthHandler{CredentialService: credentialService}
	uploadHandler := &http.UploadHandler{StorageService: storageService}

	// Build the router with middleware and routes.
	router := http.NewRouter(appHandler, authHandler, uploadHandler, zapLogger)

	// Create and start the HTTP server. TLS is terminated by the platform.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
