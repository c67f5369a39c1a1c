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

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/metrics"
	chatRepo "github.com/kailas-cloud/labassist/internal/repository/chat"
	suggestionRepo "github.com/kailas-cloud/labassist/internal/repository/suggestion"
	chiTransport "github.com/kailas-cloud/labassist/internal/transport/chi"
	chatuc "github.com/kailas-cloud/labassist/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/labassist/internal/usecase/health"
	"github.com/kailas-cloud/labassist/internal/version"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.HTTP.Port = port
			}
			return serve()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides http.port)")
	return cmd
}

func serve() error {
	logger.Info("Starting labassist API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Strings("storage_addrs", cfg.Storage.Addrs),
	)

	metrics.RegisterUpstreamMetrics()

	store, err := newStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("storage not ready: %w", err)
	}
	logger.Info("Connected to storage")

	chats := chatuc.New(
		chatRepo.New(store, cfg.Storage.KeyPrefix),
		suggestionRepo.New(store, cfg.Storage.KeyPrefix),
		logger.Named("chat"),
	)
	if cfg.Storage.ShouldSeed() {
		seeded, err := chats.SeedSuggestions(ctx)
		if err != nil {
			return fmt.Errorf("seed suggested questions: %w", err)
		}
		if seeded {
			logger.Info("Seeded default suggested questions")
		}
	}

	assistant, collab := newAssistant(cfg, logger)
	healthSvc := healthuc.New(store, collab)

	server := chiTransport.NewServer(assistant, chats, healthSvc, logger)

	r := gochi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
