package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// stubStore returns canned search results.
type stubStore struct {
	results []vectorstore.SearchResult
	err     error
	gotK    int
}

func (s *stubStore) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	s.gotK = k
	return s.results, s.err
}

func (s *stubStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	return nil, nil
}
func (s *stubStore) CollectionExists(ctx context.Context) (bool, error) { return true, nil }
func (s *stubStore) Count(ctx context.Context) (int, error)             { return len(s.results), nil }
func (s *stubStore) Close() error                                       { return nil }

func result(id, content string, score float32) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		Document: vectorstore.Document{ID: id, Content: content},
		Score:    score,
	}
}

func TestNew(t *testing.T) {
	t.Run("requires store", func(t *testing.T) {
		_, err := New(nil, 3, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("requires positive k", func(t *testing.T) {
		_, err := New(&stubStore{}, 0, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestRetrieve(t *testing.T) {
	store := &stubStore{results: []vectorstore.SearchResult{
		result("review-1", "great phone", 0.92),
		result("review-2", "bad battery", 0.41),
	}}
	r, err := New(store, 3, zap.NewNop())
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "how is the phone")
	require.NoError(t, err)
	assert.Equal(t, 3, store.gotK)
	require.Len(t, results, 2)
	assert.Equal(t, "review-1", results[0].ID)
}

func TestContext(t *testing.T) {
	t.Run("joins nearest first with blank lines", func(t *testing.T) {
		store := &stubStore{results: []vectorstore.SearchResult{
			result("review-1", "great phone", 0.92),
			result("review-2", "bad battery", 0.41),
		}}
		r, err := New(store, 3, zap.NewNop())
		require.NoError(t, err)

		out, err := r.Context(context.Background(), "how is the phone")
		require.NoError(t, err)
		assert.Equal(t, "great phone\n\nbad battery", out)
	})

	t.Run("empty results give empty string", func(t *testing.T) {
		r, err := New(&stubStore{}, 3, zap.NewNop())
		require.NoError(t, err)

		out, err := r.Context(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("single result has no separator padding", func(t *testing.T) {
		store := &stubStore{results: []vectorstore.SearchResult{
			result("review-1", "great phone", 0.92),
		}}
		r, err := New(store, 3, zap.NewNop())
		require.NoError(t, err)

		out, err := r.Context(context.Background(), "phone")
		require.NoError(t, err)
		assert.Equal(t, "great phone", out)
	})

	t.Run("store errors surface", func(t *testing.T) {
		store := &stubStore{err: fmt.Errorf("index down")}
		r, err := New(store, 3, zap.NewNop())
		require.NoError(t, err)

		_, err = r.Context(context.Background(), "phone")
		assert.Error(t, err)
	})
}

func TestTool(t *testing.T) {
	store := &stubStore{results: []vectorstore.SearchResult{
		result("review-1", "great phone", 0.92),
	}}
	r, err := New(store, 3, zap.NewNop())
	require.NoError(t, err)
	tool := NewTool(r)

	assert.Equal(t, "product_review_search", tool.Name())
	assert.NotEmpty(t, tool.Description())

	out, err := tool.Call(context.Background(), "phone")
	require.NoError(t, err)
	assert.Equal(t, "great phone", out)
}
