package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// qdrantTracer for OpenTelemetry instrumentation.
var qdrantTracer = otel.Tracer("shopchat.vectorstore.qdrant")

// contentPayloadKey is the payload field holding the document text.
const contentPayloadKey = "content"

// QdrantConfig holds configuration for the Qdrant gRPC backend.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	Host string

	// Port is the Qdrant gRPC port (6334 by default, not the 6333
	// HTTP REST port).
	Port int

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// APIKey authenticates against Qdrant Cloud. Empty for local.
	APIKey string

	// Collection is the collection this store reads and writes.
	Collection string

	// VectorSize is the embedding dimension used when the collection
	// has to be created.
	VectorSize int

	// DialTimeout bounds the startup health check.
	DialTimeout time.Duration

	// RequestTimeout bounds individual requests.
	RequestTimeout time.Duration
}

// ApplyDefaults sets default values for unset fields.
func (c *QdrantConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

// Validate validates the configuration.
func (c *QdrantConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", ErrInvalidConfig, c.Port)
	}
	if c.Collection == "" {
		return fmt.Errorf("%w: collection name is required", ErrInvalidConfig)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return nil
}

// QdrantStore implements Store against an external Qdrant service over
// gRPC. The constructor performs a health check so misconfiguration
// surfaces at startup rather than on the first request.
type QdrantStore struct {
	client   *qdrant.Client
	embedder Embedder
	config   QdrantConfig
	logger   *zap.Logger
}

// NewQdrantStore creates a QdrantStore and verifies connectivity.
// Returns ErrConnectionFailed when the service is unreachable.
func NewQdrantStore(config QdrantConfig, embedder Embedder, logger *zap.Logger) (*QdrantStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	qdrantConfig := &qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		UseTLS: config.UseTLS,
		APIKey: config.APIKey,
	}
	if !config.UseTLS {
		qdrantConfig.GrpcOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		}
	}

	client, err := qdrant.NewClient(qdrantConfig)
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	store := &QdrantStore{
		client:   client,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if _, err := client.HealthCheck(ctx); err != nil {
		_ = client.Close()
		logger.Error("qdrant health check failed",
			zap.String("host", config.Host),
			zap.Int("port", config.Port),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	logger.Info("qdrant connection established",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("collection", config.Collection),
	)

	return store, nil
}

// pointID derives a stable UUID from a document id. Qdrant only accepts
// UUID or numeric point ids, and a deterministic mapping keeps re-adds
// of the same document as upserts.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)).String()
}

// ensureCollection creates the collection if it does not exist yet.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.CollectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.config.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.config.VectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		// Another writer may have created it concurrently.
		if st, ok := status.FromError(err); ok && st.Code() == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("creating collection %s: %w", s.config.Collection, err)
	}

	s.logger.Info("created qdrant collection",
		zap.String("collection", s.config.Collection),
		zap.Int("vector_size", s.config.VectorSize),
	)
	return nil
}

// AddDocuments embeds and upserts documents into the collection.
func (s *QdrantStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.AddDocuments")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("document_count", len(docs)),
	)

	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	if err := s.ensureCollection(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
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

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		payload := make(map[string]*qdrant.Value, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			payload[k] = toQdrantValue(v)
		}
		payload[contentPayloadKey] = qdrant.NewValueString(doc.Content)

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: payload,
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	if _, err := s.client.Upsert(reqCtx, &qdrant.UpsertPoints{
		CollectionName: s.config.Collection,
		Points:         points,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("upserting points: %w", err)
	}

	span.SetAttributes(attribute.Int("documents_added", len(ids)))
	span.SetStatus(otelcodes.Ok, "success")

	s.logger.Debug("upserted documents to qdrant",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)

	return ids, nil
}

// Search performs similarity search in the store's collection.
func (s *QdrantStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Search")
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

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	points, err := s.client.Query(reqCtx, &qdrant.QueryPoints{
		CollectionName: s.config.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			span.SetStatus(otelcodes.Error, "collection not found")
			return nil, ErrCollectionNotFound
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	results := make([]SearchResult, len(points))
	for i, p := range points {
		doc := Document{
			ID:       extractPointID(p.Id),
			Metadata: make(map[string]any, len(p.Payload)),
		}
		for key, value := range p.Payload {
			if key == contentPayloadKey {
				doc.Content = value.GetStringValue()
				continue
			}
			doc.Metadata[key] = fromQdrantValue(value)
		}
		results[i] = SearchResult{Document: doc, Score: p.Score}
	}

	span.SetAttributes(attribute.Int("results_count", len(results)))
	span.SetStatus(otelcodes.Ok, "success")

	s.logger.Debug("searched qdrant collection",
		zap.String("collection", s.config.Collection),
		zap.Int("k", k),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// CollectionExists reports whether the store's collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context) (bool, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.CollectionExists")
	defer span.End()

	span.SetAttributes(attribute.String("collection", s.config.Collection))

	reqCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	info, err := s.client.GetCollectionInfo(reqCtx, s.config.Collection)
	if err != nil {
		if st, ok := status.FromError(err); ok {
			switch st.Code() {
			case codes.NotFound:
				span.SetStatus(otelcodes.Ok, "success")
				return false, nil
			case codes.Unavailable, codes.DeadlineExceeded:
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
				return false, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
			}
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, fmt.Errorf("checking collection %s: %w", s.config.Collection, err)
	}

	span.SetStatus(otelcodes.Ok, "success")
	return info != nil, nil
}

// Count returns the number of points in the store's collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Count")
	defer span.End()

	reqCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	count, err := s.client.Count(reqCtx, &qdrant.CountPoints{
		CollectionName: s.config.Collection,
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			span.SetStatus(otelcodes.Error, "collection not found")
			return 0, ErrCollectionNotFound
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return 0, fmt.Errorf("counting points in %s: %w", s.config.Collection, err)
	}

	span.SetAttributes(attribute.Int("point_count", int(count)))
	span.SetStatus(otelcodes.Ok, "success")
	return int(count), nil
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func toQdrantValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return qdrant.NewValueString(val)
	case int:
		return qdrant.NewValueInt(int64(val))
	case int64:
		return qdrant.NewValueInt(val)
	case float64:
		return qdrant.NewValueDouble(val)
	case bool:
		return qdrant.NewValueBool(val)
	default:
		return qdrant.NewValueString(fmt.Sprintf("%v", val))
	}
}

func fromQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	default:
		return nil
	}
}

func extractPointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	if num := id.GetNum(); num != 0 {
		return fmt.Sprintf("%d", num)
	}
	return ""
}

// Ensure QdrantStore implements Store.
var _ Store = (*QdrantStore)(nil)
