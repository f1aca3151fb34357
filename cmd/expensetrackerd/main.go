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
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
	"expensetracker/internal/query"
	"expensetracker/internal/services"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.Build(logger.Logger, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	engine := query.NewEngine(result.Store)
	service := services.NewExpenseService(result.Store, engine, result.Events)
	defer func() {
		if err := service.Close(); err != nil {
			logger.Error("Cleanup error", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, service, engine, result.Store, cfg.RateLimitPerMinute)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 0 // the SSE stream writes indefinitely
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB
	defer srv.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expense tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
