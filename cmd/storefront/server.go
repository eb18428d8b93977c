package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/analytics"
	"github.com/mkamran-dev/storefront-backend/internal/logger"
	"github.com/mkamran-dev/storefront-backend/internal/order"
	"github.com/mkamran-dev/storefront-backend/internal/referral"
	"github.com/mkamran-dev/storefront-backend/internal/router"
	"github.com/mkamran-dev/storefront-backend/internal/settings"
	storage "github.com/mkamran-dev/storefront-backend/internal/storage/postgres"
	"github.com/mkamran-dev/storefront-backend/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := storage.NewPostgresStorage(cfg.DatabaseConnection)
	if err != nil {
		log.Fatalf("Failed to initialize Postgres storage: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
	}()

	settingsSvc := settings.NewService(store)
	settingsHandler := settings.NewHandler(settingsSvc)

	referralSvc := referral.NewService(store)
	referralHandler := referral.NewHandler(referralSvc)

	httpClient := &http.Client{
		Timeout: cfg.WebhookTimeout,
	}
	notifier := webhook.NewNotifier(httpClient, settingsSvc, cfg.WebhookTimeout)

	orderSvc := order.NewService(store, referralSvc, settingsSvc, notifier)
	orderHandler := order.NewHandler(orderSvc)

	analyticsSvc := analytics.NewService(store)
	analyticsHandler := analytics.NewHandler(analyticsSvc)

	r := router.NewRouter(orderHandler, referralHandler, analyticsHandler, settingsHandler, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
