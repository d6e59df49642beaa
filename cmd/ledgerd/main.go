package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/finance-tracker/internal/application/service"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/config"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/db"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/handler"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Logger.Level),
		Format: cfg.Logger.Format,
	})
	defer log.Sync()
	logger.SetDefaultLogger(log)

	log.Info("Starting reference ledger server", map[string]interface{}{
		"addr":    cfg.Server.Addr,
		"db_path": cfg.Server.DBPath,
	})

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Server.DBPath, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.Server.DBPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	ledgerService := service.NewLedgerService(db.NewBadgerTransactionRepository(badgerDB), log)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, log)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	ledgerHandler.RegisterRoutes(router)

	root := middleware.RequestIDMiddleware(
		middleware.LoggingMiddleware(log)(
			middleware.RecoveryMiddleware(log)(router),
		),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Server stopped", nil)
}
