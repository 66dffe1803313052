// Package app wires configuration, logging, the vector store, and the
// agent into a ready-to-use application. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/agent"
	"github.com/fyrsmithlabs/shopchat/internal/config"
	"github.com/fyrsmithlabs/shopchat/internal/embeddings"
	"github.com/fyrsmithlabs/shopchat/internal/ingest"
	"github.com/fyrsmithlabs/shopchat/internal/logging"
	"github.com/fyrsmithlabs/shopchat/internal/retriever"
	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// App holds the assembled application components.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    vectorstore.Store
	Agent    *agent.Agent
	Ingestor *ingest.Ingestor
}

// New loads configuration and builds every component. A non-nil error
// means the process must not continue.
func New(configPath string) (*App, error) {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	embedder, err := embeddings.NewService(cfg.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("creating embedding service: %w", err)
	}

	store, err := vectorstore.NewStore(cfg.VectorStore, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	model, err := agent.NewModel(cfg.LLM)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating chat model: %w", err)
	}

	ret, err := retriever.New(store, cfg.Agent.RetrievalK, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating retriever: %w", err)
	}

	ag, err := agent.New(model, retriever.NewTool(ret), agent.NewMemorySaver(), cfg.Agent, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Agent:    ag,
		Ingestor: ingest.NewIngestor(store, cfg.Ingest, logger),
	}, nil
}

// Bootstrap makes the vector index ready to serve. It reuses the
// existing collection when one is present and runs a full ingestion of
// the CSV at dataPath when the collection does not exist yet. Any
// other failure, including an unreachable index, is returned as-is.
func (a *App) Bootstrap(ctx context.Context, dataPath string) (ingest.Stats, error) {
	stats, err := a.Ingestor.Ingest(ctx, dataPath, true)
	if errors.Is(err, vectorstore.ErrCollectionNotFound) {
		a.Logger.Info("collection not found, ingesting from source",
			zap.String("path", dataPath),
		)
		return a.Ingestor.Ingest(ctx, dataPath, false)
	}
	return stats, err
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("closing vector store", zap.Error(err))
		}
	}
	logging.Sync(a.Logger)
}
