package controllers

import (
	"time"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/services"
)

// Services are built per request from the process-wide DB, config and provider singletons

var fallbackConfig = &config.Config{
	PublicSiteURL:       "http://localhost:3000",
	InvoiceDiscountRate: 10,
	CompletionTimeout:   30 * time.Second,
	ImageTimeout:        90 * time.Second,
	UploadTimeout:       5 * time.Minute,
}

func appConfig() *config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg
	}
	return fallbackConfig
}

func notificationDispatcher() *services.NotificationDispatcher {
	return services.NewNotificationDispatcher(config.GetDB(), services.GetCRMTagger(), appConfig().TrackingURL)
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), notificationDispatcher())
}

func pricingService() *services.PricingService {
	return services.NewPricingService(config.GetDB(), appConfig().InvoiceDiscountRate)
}

func checkoutService() *services.CheckoutService {
	return services.NewCheckoutService(config.GetDB(), orderService(), pricingService(), services.GetPaymentProvider())
}

func contactService() *services.ContactService {
	return services.NewContactService(config.GetDB())
}

func contentService() *services.ContentService {
	return services.NewContentService(config.GetDB())
}

func trackingService() *services.TrackingService {
	return services.NewTrackingService(config.GetDB())
}

func intakeService() *services.IntakeService {
	return services.NewIntakeService(services.GetChatCompleter(), appConfig().CompletionTimeout)
}

func imageGenerationService() *services.ImageGenerationService {
	return services.NewImageGenerationService(services.GetImageGenerator(), appConfig().ImageTimeout)
}

func adminAuthService() *services.AdminAuthService {
	cfg := appConfig()
	return services.NewAdminAuthService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AdminSessionTTL)
}
