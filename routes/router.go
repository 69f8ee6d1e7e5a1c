package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/controllers"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/middleware"
	"github.com/adcut-studio/adcut-api/services"
)

// Setup builds the HTTP router. Providers must be initialized before it is called;
// the rate limiter in particular is captured here.
func Setup(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20

	router.Use(
		middleware.Recoverer(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		cors.New(corsConfig(cfg)),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := services.GetRateLimiter()
	chatLimit := middleware.RateLimit(limiter, middleware.NewRateLimitPolicy("chat", cfg.ChatRateLimit, cfg.RateLimitWindow))
	imageLimit := middleware.RateLimit(limiter, middleware.NewRateLimitPolicy("image", cfg.ImageRateLimit, cfg.RateLimitWindow))
	loginLimit := middleware.RateLimit(limiter, middleware.NewRateLimitPolicy("login", cfg.LoginRateLimit, cfg.RateLimitWindow))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		v1.POST("/chat", chatLimit, controllers.Chat)
		v1.POST("/images/generate", imageLimit, controllers.GenerateImage)

		v1.POST("/orders", controllers.CreateOrder)
		v1.POST("/orders/chat", controllers.CreateChatOrder)
		v1.POST("/checkout", controllers.Checkout)
		v1.POST("/contacts", controllers.CreateContact)

		v1.GET("/pricing", controllers.GetPricing)
		v1.GET("/promotions/current", controllers.GetCurrentPromotion)
		v1.GET("/portfolio", controllers.ListPortfolio)
		v1.GET("/showcase", controllers.ListShowcase)
		v1.GET("/artist-models", controllers.ListArtistModels)

		v1.GET("/track", controllers.TrackByEmail)
		v1.GET("/track/:id", controllers.TrackByID)
		v1.GET("/track/:id/qr", controllers.TrackingQRCode)

		v1.POST("/admin/session", loginLimit, controllers.AdminLogin)

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg))
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/orders/:id", controllers.GetOrder)
			admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			admin.POST("/orders/:id/proposal", controllers.SendProposal)
			admin.POST("/orders/:id/delivery", controllers.DeliverOrder)
			admin.PATCH("/orders/:id/terms", controllers.UpdateOrderTerms)
			admin.GET("/orders/:id/history", controllers.GetOrderHistory)
			admin.GET("/orders/:id/notifications", controllers.ListOrderNotifications)
			admin.POST("/orders/:id/notifications", controllers.SendOrderNotification)

			admin.GET("/contacts", controllers.ListContacts)
			admin.PATCH("/contacts/:id/status", controllers.UpdateContactStatus)

			admin.GET("/portfolio", controllers.AdminListPortfolio)
			admin.POST("/portfolio", controllers.CreatePortfolioItem)
			admin.PUT("/portfolio/:id", controllers.UpdatePortfolioItem)
			admin.DELETE("/portfolio/:id", controllers.DeletePortfolioItem)

			admin.GET("/promotions", controllers.ListPromotions)
			admin.POST("/promotions", controllers.CreatePromotion)
			admin.PUT("/promotions/:id", controllers.UpdatePromotion)
			admin.DELETE("/promotions/:id", controllers.DeletePromotion)

			admin.GET("/showcase", controllers.AdminListShowcase)
			admin.POST("/showcase", controllers.UploadShowcaseVideo)
			admin.PUT("/showcase/:id", controllers.UpdateShowcaseVideo)
			admin.DELETE("/showcase/:id", controllers.DeleteShowcaseVideo)

			admin.GET("/artist-models", controllers.AdminListArtistModels)
			admin.POST("/artist-models", controllers.CreateArtistModel)
			admin.PUT("/artist-models/:id", controllers.UpdateArtistModel)
			admin.DELETE("/artist-models/:id", controllers.DeleteArtistModel)

			admin.POST("/uploads/images", controllers.UploadImage)
			admin.DELETE("/uploads/images", controllers.DeleteUploadedImage)
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	return corsCfg
}
