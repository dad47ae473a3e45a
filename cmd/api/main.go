package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/server"
	"github.com/gravadigital/urna-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Get()

	store, err := storage.DefaultFactory().CreateContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	srv := server.New(cfg, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Server stopped")
}
