// Package vectorstore defines the interface for vector index operations
// and provides the chromem (embedded) and qdrant (external) backends.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrCollectionNotFound is returned when the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates invalid store configuration.
	ErrInvalidConfig = errors.New("invalid vectorstore configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrConnectionFailed indicates the index service is unreachable.
	ErrConnectionFailed = errors.New("failed to connect to vector index")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")
)

// Embedder generates vector embeddings from text.
//
// Implementations call a remote embedding provider; both methods block
// for the duration of the network round trip.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts, one
	// embedding per input in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query. Some
	// models optimize differently for queries vs documents.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the interface for vector index operations.
//
// A Store is scoped to one collection chosen at construction. It is
// safe for concurrent use; the handle is built once at startup and
// shared read-mostly across requests.
//
// Implementations:
//   - ChromemStore: embedded chromem-go (default, no external service)
//   - QdrantStore: external Qdrant over its gRPC client
type Store interface {
	// AddDocuments embeds and upserts documents into the collection,
	// returning the stored ids.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// Search returns up to k documents nearest to the query, ordered
	// by similarity (nearest first). An empty collection yields an
	// empty result, not an error.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// CollectionExists reports whether the store's collection exists
	// on the backing index. ErrConnectionFailed when the service is
	// unreachable.
	CollectionExists(ctx context.Context) (bool, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}
