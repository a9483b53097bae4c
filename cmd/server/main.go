package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fbal23/BIO-RED-Validation-Portal/app"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/config"
	"github.com/fbal23/BIO-RED-Validation-Portal/ui"
)

func main() {
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	registry, err := schema.Load()
	if err != nil {
		logger.Error("failed to load template registry: %v", err)
		os.Exit(1)
	}

	service := app.NewValidatorService(registry, logger)
	portal, err := ui.NewServer(cfg, service, registry, logger)
	if err != nil {
		logger.Error("failed to start portal: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           portal.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("validation portal listening on http://%s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown: %v", err)
	}
	logger.Info("validation portal stopped")
}
