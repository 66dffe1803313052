// Package ingest loads the review corpus into the vector index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/config"
	"github.com/fyrsmithlabs/shopchat/internal/reviews"
	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// Stats reports what an ingestion run did.
type Stats struct {
	// Reused is true when an existing collection was kept as-is and
	// no documents were embedded.
	Reused bool

	// Documents is the number of documents upserted in this run, or
	// the pre-existing document count when Reused is true.
	Documents int

	// Batches is the number of upsert calls made.
	Batches int
}

// Ingestor converts review CSV rows into documents and upserts them.
type Ingestor struct {
	store     vectorstore.Store
	logger    *zap.Logger
	batchSize int
}

// NewIngestor creates an Ingestor. Batch size below 1 is coerced to
// the configured default.
func NewIngestor(store vectorstore.Store, cfg config.IngestConfig, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 100
	}
	return &Ingestor{
		store:     store,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Ingest populates the vector index from the review CSV at dataPath.
//
// When loadExisting is true the existing collection is reused untouched
// with zero embedding calls; a missing collection is
// vectorstore.ErrCollectionNotFound and an unreachable index surfaces
// as vectorstore.ErrConnectionFailed. When loadExisting is false every
// row in the CSV is converted and upserted in batches. Document ids are
// stable per row, so re-ingesting the same file overwrites in place
// rather than duplicating.
func (in *Ingestor) Ingest(ctx context.Context, dataPath string, loadExisting bool) (Stats, error) {
	if loadExisting {
		exists, err := in.store.CollectionExists(ctx)
		if err != nil {
			return Stats{}, fmt.Errorf("checking collection: %w", err)
		}
		if !exists {
			return Stats{}, vectorstore.ErrCollectionNotFound
		}
		count, err := in.store.Count(ctx)
		if err != nil {
			return Stats{}, fmt.Errorf("counting documents: %w", err)
		}
		in.logger.Info("reusing existing collection",
			zap.Int("documents", count),
		)
		return Stats{Reused: true, Documents: count}, nil
	}

	conv, err := reviews.Open(dataPath)
	if err != nil {
		return Stats{}, fmt.Errorf("opening review data: %w", err)
	}
	defer conv.Close()

	var stats Stats
	batch := make([]vectorstore.Document, 0, in.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := in.store.AddDocuments(ctx, batch); err != nil {
			return fmt.Errorf("upserting batch %d: %w", stats.Batches+1, err)
		}
		stats.Documents += len(batch)
		stats.Batches++
		in.logger.Debug("upserted batch",
			zap.Int("batch", stats.Batches),
			zap.Int("documents", stats.Documents),
		)
		batch = batch[:0]
		return nil
	}

	for {
		doc, err := conv.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading review data: %w", err)
		}

		batch = append(batch, doc)
		if len(batch) == in.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	if stats.Documents == 0 {
		return stats, fmt.Errorf("%w: no reviews found in %s", reviews.ErrDataFormat, dataPath)
	}

	in.logger.Info("ingestion complete",
		zap.Int("documents", stats.Documents),
		zap.Int("batches", stats.Batches),
	)

	return stats, nil
}
