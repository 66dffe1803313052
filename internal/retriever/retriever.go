// Package retriever exposes vector search as an agent tool.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// Retriever fetches the passages nearest to a query from the review
// index. K is fixed at construction.
type Retriever struct {
	store  vectorstore.Store
	k      int
	logger *zap.Logger
}

// New creates a Retriever returning up to k passages per query.
func New(store vectorstore.Store, k int, logger *zap.Logger) (*Retriever, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, k: k, logger: logger}, nil
}

// Retrieve returns the nearest passages to the query, nearest first.
// Fewer than k results mean the index holds fewer documents.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]vectorstore.SearchResult, error) {
	results, err := r.store.Search(ctx, query, r.k)
	if err != nil {
		return nil, fmt.Errorf("searching reviews: %w", err)
	}

	r.logger.Debug("retrieved passages",
		zap.String("query", query),
		zap.Int("k", r.k),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Context returns the retrieved passages joined into a single context
// block, nearest first, separated by blank lines. An empty index or no
// matches yields the empty string with no padding.
func (r *Retriever) Context(ctx context.Context, query string) (string, error) {
	results, err := r.Retrieve(ctx, query)
	if err != nil {
		return "", err
	}

	passages := make([]string, 0, len(results))
	for _, res := range results {
		if res.Content == "" {
			continue
		}
		passages = append(passages, res.Content)
	}

	return strings.Join(passages, "\n\n"), nil
}
