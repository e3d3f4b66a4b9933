package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/aloraops/alora-site/internal/api/handlers"
	"github.com/aloraops/alora-site/internal/api/middleware"
	"github.com/aloraops/alora-site/internal/config"
	"github.com/aloraops/alora-site/internal/limiter"
	"github.com/aloraops/alora-site/internal/mailer"
	"github.com/aloraops/alora-site/internal/metrics"
	"github.com/aloraops/alora-site/internal/models"
	"github.com/aloraops/alora-site/internal/services"
)

// Dependencies are the external clients built once at startup from
// validated configuration.
type Dependencies struct {
	Limiter limiter.Limiter
	Mailer  mailer.Mailer
}

// Services exposes the long-lived services to the caller so cmd/api can
// hook them into the cron scheduler.
type Services struct {
	Blog          *services.BlogService
	Notifications *services.NotificationService
}

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, deps Dependencies) (*Services, error) {
	if err := db.AutoMigrate(
		&models.Setting{},
		&models.Notification{},
		&models.BlogPost{},
		&models.FAQEntry{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	notificationService := services.NewNotificationService(db, cfg.AlertURLs)
	contactService := services.NewContactService(deps.Limiter, deps.Mailer, notificationService, cfg.ContactRecipient)
	blogService := services.NewBlogService(db, cfg.BlogDir)

	router.GET("/api/v1/health", handlers.HealthHandler)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// The two form endpoints keep their public paths; the frontend posts
	// to them directly.
	contactHandler := handlers.NewContactHandler(contactService)
	router.POST("/api/contact", contactHandler.Submit)

	gateHandler := handlers.NewGateHandler(cfg)
	router.POST(middleware.VerifyPath, gateHandler.VerifyPassword)

	api := router.Group("/api/v1")

	blogHandler := handlers.NewBlogHandler(blogService)
	api.GET("/blog", blogHandler.List)
	api.GET("/blog/:slug", blogHandler.Get)

	faqHandler := handlers.NewFAQHandler(db)
	api.GET("/faq", faqHandler.List)

	settingsHandler := handlers.NewSettingsHandler(db)
	api.GET("/settings", settingsHandler.GetSettings)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminToken(cfg.AdminToken))
	{
		notificationHandler := handlers.NewNotificationHandler(notificationService)
		admin.GET("/notifications", notificationHandler.List)
		admin.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		admin.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		admin.POST("/blog/reindex", blogHandler.Reindex)
		admin.POST("/settings", settingsHandler.UpdateSetting)
	}

	return &Services{Blog: blogService, Notifications: notificationService}, nil
}
