package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"semsearch/internal/config"
	"semsearch/internal/embedding"
	"semsearch/internal/models"
)

type fakeStore struct {
	results    []*models.SearchResult
	lastTopK   int
	logged     []*models.SearchResult
	loggedText string
	logErr     error
	logs       []*models.QueryLog
	lastLimit  int
	stats      *models.Stats
}

func (f *fakeStore) CreateDocumentWithChunks(context.Context, *models.Document, []*models.Chunk) error {
	return nil
}
func (f *fakeStore) GetDocument(context.Context, int64) (*models.Document, error) { return nil, nil }
func (f *fakeStore) ListDocuments(context.Context) ([]*models.Document, error)    { return nil, nil }
func (f *fakeStore) DeleteDocument(context.Context, int64) error                  { return nil }

func (f *fakeStore) SearchChunks(_ context.Context, _ []float32, topK int) ([]*models.SearchResult, error) {
	f.lastTopK = topK
	if topK < len(f.results) {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func (f *fakeStore) LogSearch(_ context.Context, queryText string, results []*models.SearchResult, _ float64) (int64, error) {
	if f.logErr != nil {
		return 0, f.logErr
	}
	f.loggedText = queryText
	f.logged = results
	return 1, nil
}

func (f *fakeStore) QueryLogs(_ context.Context, limit int) ([]*models.QueryLog, error) {
	f.lastLimit = limit
	return f.logs, nil
}

func (f *fakeStore) Stats(context.Context) (*models.Stats, error) { return f.stats, nil }
func (f *fakeStore) Close()                                       {}

func testConfig() *config.SearchConfig {
	return &config.SearchConfig{DefaultTopK: 5, MaxTopK: 100, DefaultLogLimit: 50, MaxLogLimit: 500}
}

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(store, embedding.NewMockEmbedder(8), testConfig(), zap.NewNop())
}

func TestSearch_ReturnsOrderedResults(t *testing.T) {
	store := &fakeStore{results: []*models.SearchResult{
		{EmbeddingID: 1, Score: 0.9, ChunkText: "first", Filename: "a.txt", DocumentID: 1},
		{EmbeddingID: 2, Score: 0.5, ChunkText: "second", Filename: "b.txt", DocumentID: 2},
		{EmbeddingID: 3, Score: -0.1, ChunkText: "third", Filename: "c.txt", DocumentID: 3},
	}}
	engine := newTestEngine(store)

	resp, err := engine.Search(context.Background(), "test", 5)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Query != "test" {
		t.Errorf("query echo: got %q", resp.Query)
	}
	if resp.TotalResults != 3 || len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got total=%d len=%d", resp.TotalResults, len(resp.Results))
	}
	for i := 0; i+1 < len(resp.Results); i++ {
		if resp.Results[i].Score < resp.Results[i+1].Score {
			t.Errorf("results not ordered by non-increasing score at %d", i)
		}
	}
	if resp.ResponseTimeMs < 0 {
		t.Errorf("response time should be non-negative, got %f", resp.ResponseTimeMs)
	}
}

func TestSearch_TopKZero(t *testing.T) {
	store := &fakeStore{results: []*models.SearchResult{{EmbeddingID: 1, Score: 0.9}}}
	engine := newTestEngine(store)

	resp, err := engine.Search(context.Background(), "test", 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalResults != 0 || len(resp.Results) != 0 {
		t.Errorf("top_k=0 should yield no results, got %d", resp.TotalResults)
	}
}

func TestSearch_EmptyStore(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(store)

	resp, err := engine.Search(context.Background(), "test", 3)
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("empty store should yield no results, got %d", resp.TotalResults)
	}
}

func TestSearch_ClampsTopK(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(store)

	if _, err := engine.Search(context.Background(), "test", 10000); err != nil {
		t.Fatal(err)
	}
	if store.lastTopK != 100 {
		t.Errorf("top_k should be clamped to max, got %d", store.lastTopK)
	}
}

func TestSearch_LogsQueryAndResponses(t *testing.T) {
	store := &fakeStore{results: []*models.SearchResult{{EmbeddingID: 7, Score: 0.8, ChunkText: "hit"}}}
	engine := newTestEngine(store)

	if _, err := engine.Search(context.Background(), "what is ml", 5); err != nil {
		t.Fatal(err)
	}
	if store.loggedText != "what is ml" {
		t.Errorf("logged query text: got %q", store.loggedText)
	}
	if len(store.logged) != 1 || store.logged[0].EmbeddingID != 7 {
		t.Errorf("logged responses: got %v", store.logged)
	}
}

func TestSearch_LogFailureFailsRequest(t *testing.T) {
	store := &fakeStore{logErr: errors.New("disk full")}
	engine := newTestEngine(store)

	if _, err := engine.Search(context.Background(), "test", 5); err == nil {
		t.Fatal("a log write failure should fail the search")
	}
}

func TestQueryLogs_LimitHandling(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(store)

	if _, err := engine.QueryLogs(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if store.lastLimit != 50 {
		t.Errorf("zero limit should use default, got %d", store.lastLimit)
	}
	if _, err := engine.QueryLogs(context.Background(), 9999); err != nil {
		t.Fatal(err)
	}
	if store.lastLimit != 500 {
		t.Errorf("limit should be capped, got %d", store.lastLimit)
	}
}
