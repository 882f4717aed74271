package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/logging"
	"github.com/vee4group/order-tracker-api/middleware"
	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/services"
	"github.com/vee4group/order-tracker-api/utils"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("GO_ENV"))
	log.Info().Msg("Starting Order Tracker API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.GoEnv)

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Documents go to S3 when credentials are present, otherwise to local disk
	utils.UploadDir = cfg.UploadDir
	var documents services.DocumentService
	if cfg.S3Configured() {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3")
		}
		documents = services.InitDocumentService(s3Service)
		log.Info().Str("bucket", cfg.AWSS3Bucket).Msg("Storing documents in S3")
	} else {
		documents = services.InitLocalDocumentService(cfg.UploadDir)
		log.Warn().Str("dir", cfg.UploadDir).Msg("S3 not configured, storing documents locally")
	}

	notifier := services.InitNotifier(cfg, db, services.NewChannels(cfg))
	services.InitServices(cfg, db, notifier, documents)

	router := setupRouter(cfg, middleware.EnsureValidToken(cfg))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msgf("Server is running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	// Let in-flight email and WhatsApp deliveries finish
	notifier.Wait()
	log.Info().Msg("Server stopped")
}
