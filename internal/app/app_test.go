package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/config"
	"github.com/fyrsmithlabs/shopchat/internal/ingest"
	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

type bootstrapStore struct {
	exists bool
	count  int
	adds   int
}

func (s *bootstrapStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	s.adds++
	s.count += len(docs)
	s.exists = true
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (s *bootstrapStore) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (s *bootstrapStore) CollectionExists(ctx context.Context) (bool, error) {
	return s.exists, nil
}

func (s *bootstrapStore) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

func (s *bootstrapStore) Close() error { return nil }

func writeReviewCSV(t *testing.T, rows int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	data := "product_title,review,rating\n"
	for i := 0; i < rows; i++ {
		data += fmt.Sprintf("Phone %d,works fine,4.0\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses existing collection without upserts", func(t *testing.T) {
		store := &bootstrapStore{exists: true, count: 7}
		a := &App{
			Logger:   zap.NewNop(),
			Ingestor: ingest.NewIngestor(store, config.IngestConfig{BatchSize: 10}, zap.NewNop()),
		}

		stats, err := a.Bootstrap(ctx, "does-not-exist.csv")
		require.NoError(t, err)
		assert.True(t, stats.Reused)
		assert.Equal(t, 7, stats.Documents)
		assert.Zero(t, store.adds)
	})

	t.Run("ingests when the collection is missing", func(t *testing.T) {
		store := &bootstrapStore{}
		a := &App{
			Logger:   zap.NewNop(),
			Ingestor: ingest.NewIngestor(store, config.IngestConfig{BatchSize: 10}, zap.NewNop()),
		}

		stats, err := a.Bootstrap(ctx, writeReviewCSV(t, 3))
		require.NoError(t, err)
		assert.False(t, stats.Reused)
		assert.Equal(t, 3, stats.Documents)
		assert.Equal(t, 1, store.adds)
	})
}
