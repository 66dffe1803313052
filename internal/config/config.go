// Package config provides configuration loading for shopchat.
//
// Configuration is loaded from an optional YAML file and overridden by
// environment variables. Required settings with no value fail startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/shopchat/internal/logging"
)

// ErrInvalidConfig indicates missing or invalid startup settings.
// The process must not start when Validate returns this.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete shopchat configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     logging.Config    `koanf:"logging"`
	LLM         LLMConfig         `koanf:"llm"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Agent       AgentConfig       `koanf:"agent"`
	Ingest      IngestConfig      `koanf:"ingest"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LLMConfig holds the chat/completion model configuration.
type LLMConfig struct {
	// Model is the chat model identifier (e.g. gpt-4o-mini). Required.
	Model string `koanf:"model"`

	// BaseURL overrides the provider endpoint. Empty uses the
	// provider default; set it for OpenAI-compatible gateways.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates against the model provider.
	APIKey Secret `koanf:"api_key"`
}

// EmbeddingsConfig holds the embedding model configuration.
type EmbeddingsConfig struct {
	// Model is the embedding model identifier. Required.
	Model string `koanf:"model"`

	// BaseURL overrides the embedding endpoint. Works for OpenAI and
	// OpenAI-compatible servers such as TEI.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates against the embedding provider.
	APIKey Secret `koanf:"api_key"`
}

// VectorStoreConfig holds vector index configuration.
//
// Provider selects the backing store: "chromem" (embedded, default) or
// "qdrant" (external service).
type VectorStoreConfig struct {
	Provider   string `koanf:"provider"`
	Collection string `koanf:"collection"`
	VectorSize int    `koanf:"vector_size"`

	// Chromem provider settings.
	Path     string `koanf:"path"`
	Compress bool   `koanf:"compress"`

	// Qdrant provider settings. GRPCPort is the gRPC API port (6334),
	// not the 6333 REST port. APIKey is only needed for Qdrant Cloud.
	GRPCHost string `koanf:"grpc_host"`
	GRPCPort int    `koanf:"grpc_port"`
	APIKey   Secret `koanf:"api_key"`
	UseTLS   bool   `koanf:"use_tls"`
}

// AgentConfig holds conversational agent policy settings.
type AgentConfig struct {
	// RetrievalK is the number of passages the retrieval tool fetches.
	RetrievalK int `koanf:"retrieval_k"`

	// SummaryTrigger is the message count past which a thread's
	// history is compacted before the next model call.
	SummaryTrigger int `koanf:"summary_trigger"`

	// SummaryKeep is the number of most recent messages retained
	// verbatim after compaction.
	SummaryKeep int `koanf:"summary_keep"`

	// MaxToolTurns bounds the reasoning/tool-call loop per invocation.
	MaxToolTurns int `koanf:"max_tool_turns"`
}

// IngestConfig holds offline ingestion settings.
type IngestConfig struct {
	// DataPath is the review CSV consumed by `shopchat ingest`.
	DataPath string `koanf:"data_path"`

	// BatchSize is the number of documents upserted per call.
	BatchSize int `koanf:"batch_size"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "product_reviews"
	}
	if cfg.VectorStore.VectorSize == 0 {
		cfg.VectorStore.VectorSize = 1536 // text-embedding-3-small
	}
	if cfg.VectorStore.Path == "" {
		cfg.VectorStore.Path = "~/.config/shopchat/vectorstore"
	}
	if cfg.VectorStore.GRPCHost == "" {
		cfg.VectorStore.GRPCHost = "localhost"
	}
	if cfg.VectorStore.GRPCPort == 0 {
		cfg.VectorStore.GRPCPort = 6334
	}

	if cfg.Agent.RetrievalK == 0 {
		cfg.Agent.RetrievalK = 3
	}
	if cfg.Agent.SummaryTrigger == 0 {
		cfg.Agent.SummaryTrigger = 10
	}
	if cfg.Agent.SummaryKeep == 0 {
		cfg.Agent.SummaryKeep = 4
	}
	if cfg.Agent.MaxToolTurns == 0 {
		cfg.Agent.MaxToolTurns = 5
	}

	if cfg.Ingest.DataPath == "" {
		cfg.Ingest.DataPath = "data/flipkart_product_review.csv"
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 100
	}
}

// Validate validates the configuration. A non-nil error means the
// process must not start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port %d (must be 1-65535)", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("%w: llm model is required (LLM_MODEL)", ErrInvalidConfig)
	}
	if c.Embeddings.Model == "" {
		return fmt.Errorf("%w: embedding model is required (EMBEDDINGS_MODEL)", ErrInvalidConfig)
	}

	switch c.VectorStore.Provider {
	case "chromem":
		if c.VectorStore.Path == "" {
			return fmt.Errorf("%w: vectorstore path is required for chromem provider", ErrInvalidConfig)
		}
	case "qdrant":
		if c.VectorStore.GRPCHost == "" {
			return fmt.Errorf("%w: vectorstore grpc host is required for qdrant provider (VECTORSTORE_GRPC_HOST)", ErrInvalidConfig)
		}
		if c.VectorStore.GRPCPort < 1 || c.VectorStore.GRPCPort > 65535 {
			return fmt.Errorf("%w: invalid vectorstore grpc port %d", ErrInvalidConfig, c.VectorStore.GRPCPort)
		}
	default:
		return fmt.Errorf("%w: unsupported vectorstore provider %q (supported: chromem, qdrant)", ErrInvalidConfig, c.VectorStore.Provider)
	}
	if c.VectorStore.Collection == "" {
		return fmt.Errorf("%w: vectorstore collection is required", ErrInvalidConfig)
	}
	if c.VectorStore.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}

	if c.Agent.RetrievalK <= 0 {
		return fmt.Errorf("%w: retrieval k must be positive", ErrInvalidConfig)
	}
	if c.Agent.SummaryKeep >= c.Agent.SummaryTrigger {
		return fmt.Errorf("%w: summary keep (%d) must be below summary trigger (%d)",
			ErrInvalidConfig, c.Agent.SummaryKeep, c.Agent.SummaryTrigger)
	}
	if c.Agent.MaxToolTurns <= 0 {
		return fmt.Errorf("%w: max tool turns must be positive", ErrInvalidConfig)
	}

	return nil
}
