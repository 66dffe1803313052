package vectorstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/config"
)

// NewStore creates a Store based on the configured provider:
//   - "chromem" (default): embedded store, no external service
//   - "qdrant": external Qdrant server over gRPC
func NewStore(cfg config.VectorStoreConfig, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch cfg.Provider {
	case "chromem", "":
		return NewChromemStore(ChromemConfig{
			Path:       cfg.Path,
			Compress:   cfg.Compress,
			Collection: cfg.Collection,
		}, embedder, logger)

	case "qdrant":
		return NewQdrantStore(QdrantConfig{
			Host:       cfg.GRPCHost,
			Port:       cfg.GRPCPort,
			UseTLS:     cfg.UseTLS,
			APIKey:     cfg.APIKey.Value(),
			Collection: cfg.Collection,
			VectorSize: cfg.VectorSize,
		}, embedder, logger)

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q (supported: chromem, qdrant)",
			ErrInvalidConfig, cfg.Provider)
	}
}
