package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/routes"
	"github.com/adcut-studio/adcut-api/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{ServiceName: "adcut-api"}).Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.Init(logger.Options{
		ServiceName: "adcut-api",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	if err := config.GetDB().AutoMigrate(models.All()...); err != nil {
		logg.Error(ctx, "failed to migrate database", err)
		os.Exit(1)
	}
	logg.Info(ctx, "database migration completed")

	initProviders(ctx, cfg, logg)
	defer closeProviders(ctx, logg)

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.Setup(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{"env": cfg.GoEnv, "addr": addr})
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logg.Info(serverCtx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
	}
}

// initProviders registers every third-party integration whose credentials are present.
// Missing ones leave the matching endpoints answering 503 NOT_CONFIGURED.
func initProviders(ctx context.Context, cfg *config.Config, logg *logger.Logger) {
	skip := func(name string) {
		logg.Warn(logg.WithField(ctx, "provider", name), "provider not configured")
	}

	if cfg.OpenAIAPIKey != "" {
		services.InitChatCompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		skip("completion")
	}

	if cfg.GeminiAPIKey != "" {
		if _, err := services.InitImageGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel); err != nil {
			logg.Error(ctx, "failed to initialize image generator", err)
		}
	} else {
		skip("image_generation")
	}

	if cfg.StripeSecretKey != "" {
		if _, err := services.InitPaymentProvider(cfg.StripeSecretKey, cfg.Currency, cfg.StripeSuccessURL, cfg.StripeCancelURL); err != nil {
			logg.Error(ctx, "failed to initialize payment provider", err)
		}
	} else {
		skip("payment")
	}

	if cfg.MailchimpAPIKey != "" && cfg.MailchimpServerPrefix != "" && cfg.MailchimpListID != "" {
		services.InitCRMTagger(cfg.MailchimpAPIKey, cfg.MailchimpServerPrefix, cfg.MailchimpListID)
	} else {
		skip("crm")
	}

	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if _, err := services.InitVideoTranscoder(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.UploadTimeout); err != nil {
			logg.Error(ctx, "failed to initialize video transcoder", err)
		}
	} else {
		skip("transcode")
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			logg.Error(ctx, "failed to initialize S3", err)
		} else {
			services.InitImageService(s3Service)
		}
	} else {
		skip("storage")
	}

	if cfg.RedisURL != "" {
		if _, err := services.InitRateLimiter(ctx, cfg.RedisURL); err != nil {
			logg.Error(ctx, "rate limiting disabled", err)
		}
	} else {
		skip("rate_limit")
	}
}

func closeProviders(ctx context.Context, logg *logger.Logger) {
	if limiter, ok := services.GetRateLimiter().(*services.RedisLimiter); ok {
		if err := limiter.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}
	if db := config.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logg.Error(ctx, "error closing database", err)
			}
		}
	}
}
