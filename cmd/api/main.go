package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aloraops/alora-site/internal/api/routes"
	"github.com/aloraops/alora-site/internal/config"
	"github.com/aloraops/alora-site/internal/database"
	"github.com/aloraops/alora-site/internal/limiter"
	"github.com/aloraops/alora-site/internal/logger"
	"github.com/aloraops/alora-site/internal/mailer"
	"github.com/aloraops/alora-site/internal/server"
	"github.com/aloraops/alora-site/internal/version"
)

const notificationRetention = 30 * 24 * time.Hour

func main() {
	// Setup logging with rotation
	logDir := filepath.Join("data", "logs")
	_ = os.MkdirAll(logDir, 0o755)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "alora.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	mw := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(mw)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(!cfg.IsProduction(), mw)
	log.Printf("starting %s on version %s", version.Name, version.Full())

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	redisClient, err := limiter.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer redisClient.Close()

	contactLimiter := limiter.NewRedisLimiter(redisClient,
		cfg.ContactRateLimit.Requests, cfg.ContactRateLimit.Window)

	var contactMailer mailer.Mailer
	if cfg.SMTP.Host != "" {
		contactMailer, err = mailer.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			log.Fatalf("configure mailer: %v", err)
		}
	} else {
		// Validate already rejects this in production.
		log.Printf("WARNING: SMTP_HOST not set; contact dispatch will fail closed")
		contactMailer = mailer.Disabled{}
	}

	srv, err := server.New(db, cfg, routes.Dependencies{
		Limiter: contactLimiter,
		Mailer:  contactMailer,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if count, err := srv.Services.Blog.Reindex(); err != nil {
		log.Printf("WARNING: initial blog index failed: %v", err)
	} else {
		log.Printf("indexed %d blog posts", count)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		if _, err := srv.Services.Blog.Reindex(); err != nil {
			logger.Log().WithError(err).Warn("scheduled blog reindex failed")
		}
	}); err != nil {
		log.Fatalf("schedule blog reindex: %v", err)
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		if _, err := srv.Services.Notifications.PruneRead(notificationRetention); err != nil {
			logger.Log().WithError(err).Warn("notification retention sweep failed")
		}
	}); err != nil {
		log.Fatalf("schedule notification sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
