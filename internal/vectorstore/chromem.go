package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("shopchat.vectorstore.chromem")

// ChromemConfig holds configuration for the chromem-go embedded store.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means
	// in-memory only (used by tests).
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection this store reads and writes.
	Collection string
}

// ChromemStore implements Store using chromem-go.
//
// chromem-go is an embeddable vector database with zero third-party
// dependencies. It keeps the index in memory and persists to gob files,
// so no external database service is needed for the default setup.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger
}

// NewChromemStore creates a ChromemStore with the given configuration.
// An empty config.Path yields a purely in-memory store.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if config.Collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var db *chromem.DB
	if config.Path == "" {
		db = chromem.NewDB()
	} else {
		expandedPath, err := expandChromemPath(config.Path)
		if err != nil {
			return nil, fmt.Errorf("expanding path: %w", err)
		}
		if err := os.MkdirAll(expandedPath, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", expandedPath, err)
		}
		db, err = chromem.NewPersistentDB(expandedPath, config.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating chromem DB: %w", err)
		}
		config.Path = expandedPath
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	logger.Info("chromem store initialized",
		zap.String("path", config.Path),
		zap.Bool("compress", config.Compress),
		zap.String("collection", config.Collection),
	)

	return store, nil
}

// expandChromemPath expands ~ to the home directory.
func expandChromemPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// createEmbeddingFunc adapts the Embedder interface to chromem's callback.
func (s *ChromemStore) createEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// collection returns the store's collection, or nil if it has never
// been written. chromem-go requires an explicit embedding function here,
// otherwise it silently installs its default OpenAI embedder for
// persisted collections.
func (s *ChromemStore) collection() *chromem.Collection {
	return s.db.GetCollection(s.config.Collection, s.createEmbeddingFunc())
}

// AddDocuments embeds and upserts documents. Documents sharing an id
// with an existing entry replace it.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.AddDocuments")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("document_count", len(docs)),
	)

	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	collection, err := s.db.GetOrCreateCollection(s.config.Collection, nil, s.createEmbeddingFunc())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("getting/creating collection %s: %w", s.config.Collection, err)
	}

	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("document at index %d has no id", i)
		}
		ids[i] = doc.ID
		texts[i] = doc.Content
	}

	// Embed the whole batch in one provider call rather than letting
	// chromem embed document by document.
	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        ids[i],
			Content:   doc.Content,
			Metadata:  convertMetadataToString(doc.Metadata),
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1 since the embeddings are already computed.
	if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	span.SetAttributes(attribute.Int("documents_added", len(ids)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("added documents to chromem",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)

	return ids, nil
}

// Search performs similarity search in the store's collection.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	collection := s.collection()
	if collection == nil {
		span.SetStatus(codes.Error, "collection not found")
		return nil, ErrCollectionNotFound
	}

	// chromem requires nResults <= doc count, so cap k here.
	docCount := collection.Count()
	if docCount == 0 {
		return []SearchResult{}, nil
	}
	if k > docCount {
		k = docCount
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: convertMetadataFromString(r.Metadata),
			},
			Score: r.Similarity,
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(searchResults)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("searched chromem collection",
		zap.String("collection", s.config.Collection),
		zap.Int("k", k),
		zap.Int("results", len(searchResults)),
	)

	return searchResults, nil
}

// CollectionExists reports whether the store's collection exists.
func (s *ChromemStore) CollectionExists(ctx context.Context) (bool, error) {
	_, span := chromemTracer.Start(ctx, "ChromemStore.CollectionExists")
	defer span.End()

	span.SetAttributes(attribute.String("collection", s.config.Collection))
	exists := s.collection() != nil
	span.SetStatus(codes.Ok, "success")
	return exists, nil
}

// Count returns the number of documents in the store's collection.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	_, span := chromemTracer.Start(ctx, "ChromemStore.Count")
	defer span.End()

	collection := s.collection()
	if collection == nil {
		span.SetStatus(codes.Error, "collection not found")
		return 0, ErrCollectionNotFound
	}

	count := collection.Count()
	span.SetAttributes(attribute.Int("point_count", count))
	span.SetStatus(codes.Ok, "success")
	return count, nil
}

// Close closes the store. chromem-go persists on every write, so there
// is nothing to flush.
func (s *ChromemStore) Close() error {
	s.logger.Info("chromem store closed")
	return nil
}

// convertMetadataToString converts metadata to chromem's string map.
func convertMetadataToString(metadata map[string]any) map[string]string {
	if metadata == nil {
		return nil
	}

	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int:
			result[k] = fmt.Sprintf("%d", val)
		case int64:
			result[k] = fmt.Sprintf("%d", val)
		case float64:
			result[k] = fmt.Sprintf("%f", val)
		case bool:
			result[k] = fmt.Sprintf("%t", val)
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}

// convertMetadataFromString converts chromem's string map back.
func convertMetadataFromString(metadata map[string]string) map[string]any {
	if metadata == nil {
		return nil
	}

	result := make(map[string]any, len(metadata))
	for k, v := range metadata {
		result[k] = v
	}
	return result
}

// Ensure ChromemStore implements Store.
var _ Store = (*ChromemStore)(nil)
