package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"habitroom-backend/config"
	"habitroom-backend/internal/api"
	"habitroom-backend/internal/db"
	"habitroom-backend/internal/logger"
	"habitroom-backend/internal/notification"
	"habitroom-backend/internal/reminder"
	"habitroom-backend/internal/store"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded", zap.String("path", configPath))

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)

	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Missing VAPID keys disable the push subsystem, not the process: the
	// scheduler never starts and the API keeps serving.
	pushConfigured := cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != ""
	switch {
	case !pushConfigured:
		log.Warn("VAPID keys are not configured; reminder scheduler disabled")
	case !cfg.Reminder.Enabled:
		log.Info("reminder scheduler disabled by configuration")
	default:
		dispatcher := notification.NewDispatcher(appStore, webpushOptions, log, cfg.Reminder.BatchSize)
		scheduler := reminder.NewScheduler(appStore, dispatcher, log, cfg.Reminder.Interval, cfg.Reminder.BatchSize)
		go scheduler.Run(ctx)
	}

	router := api.NewRouter(appStore, webpushOptions, log, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutdown signal received, stopping services")

	// Stop issuing scheduler ticks; an in-flight tick finishes on its own.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("server gracefully stopped")
}
