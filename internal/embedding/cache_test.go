package embedding

import (
	"context"
	"testing"
)

// countingEmbedder counts backend calls to verify cache hits.
type countingEmbedder struct {
	*MockEmbedder
	embedCalls int
	batchCalls int
	batchTexts []string
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.embedCalls++
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.batchTexts = texts
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder_Hit(t *testing.T) {
	backend := &countingEmbedder{MockEmbedder: NewMockEmbedder(4)}
	cached := NewCachedEmbedder(backend, 10)
	ctx := context.Background()

	first, err := cached.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if backend.embedCalls != 1 {
		t.Errorf("backend should be called once, got %d", backend.embedCalls)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cached vector differs at %d", i)
		}
	}
}

func TestCachedEmbedder_BatchOnlyMisses(t *testing.T) {
	backend := &countingEmbedder{MockEmbedder: NewMockEmbedder(4)}
	cached := NewCachedEmbedder(backend, 10)
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	vecs, err := cached.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	if backend.batchCalls != 1 || len(backend.batchTexts) != 2 {
		t.Errorf("backend batch should only see misses: calls=%d texts=%v", backend.batchCalls, backend.batchTexts)
	}
	// Order preserved: vecs[1] must be the embedding of "b".
	want, _ := NewMockEmbedder(4).Embed(ctx, "b")
	for i := range want {
		if vecs[1][i] != want[i] {
			t.Fatalf("batch result order broken at %d", i)
		}
	}
}

func TestCachedEmbedder_Eviction(t *testing.T) {
	backend := &countingEmbedder{MockEmbedder: NewMockEmbedder(4)}
	cached := NewCachedEmbedder(backend, 2)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		if _, err := cached.Embed(ctx, text); err != nil {
			t.Fatal(err)
		}
	}
	// "a" was evicted; embedding it again goes to the backend.
	if _, err := cached.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if backend.embedCalls != 4 {
		t.Errorf("expected 4 backend calls after eviction, got %d", backend.embedCalls)
	}
}

func TestCachedEmbedder_DisabledCapacity(t *testing.T) {
	backend := NewMockEmbedder(4)
	if e := NewCachedEmbedder(backend, 0); e != Embedder(backend) {
		t.Error("capacity 0 should return the backend unchanged")
	}
}
