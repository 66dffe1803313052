// Shopchatd serves the web chat interface over the product review corpus.
//
// On startup it connects to the vector store, reuses the existing
// collection when one is populated (ingesting the review CSV
// otherwise), and serves the chat page, /get, /health, and /metrics.
//
// Configuration comes from an optional YAML file and environment
// variables. A local .env file is honored in development.
//
// Usage:
//
//	# Start with defaults
//	shopchatd
//
//	# Configure via environment
//	SERVER_PORT=8080 LLM_MODEL=gpt-4o-mini shopchatd
//
//	# Explicit config file
//	shopchatd -config config.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/app"
	"github.com/fyrsmithlabs/shopchat/internal/httpapi"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("shopchatd: %v", err)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(configPath)
	if err != nil {
		return err
	}
	defer application.Close()

	logger := application.Logger

	stats, err := application.Bootstrap(ctx, application.Config.Ingest.DataPath)
	if err != nil {
		return err
	}
	logger.Info("vector index ready",
		zap.Int("documents", stats.Documents),
		zap.Bool("reused", stats.Reused),
	)

	server, err := httpapi.NewServer(application.Agent, application.Config.Server, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), application.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
