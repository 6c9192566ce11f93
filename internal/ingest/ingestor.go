package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"semsearch/internal/embedding"
	"semsearch/internal/models"
	"semsearch/internal/storage"
)

// Ingestor runs the upload pipeline: chunk, batch-embed, persist. The store
// call is transactional, so a failed ingest leaves nothing behind.
type Ingestor struct {
	store    storage.Store
	embedder embedding.Embedder
	chunker  *Chunker
	logger   *zap.Logger
}

// NewIngestor creates an ingestor with the given dependencies.
func NewIngestor(store storage.Store, embedder embedding.Embedder, chunker *Chunker, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		store:    store,
		embedder: embedder,
		chunker:  chunker,
		logger:   logger,
	}
}

// Ingest stores content as a new document with one embedded chunk per window.
// Returns the stored document with its database-assigned id and timestamp.
func (ing *Ingestor) Ingest(ctx context.Context, filename, content string) (*models.Document, error) {
	doc := &models.Document{
		Filename: filename,
		Content:  content,
	}

	pieces := ing.chunker.Chunk(content)
	chunks := make([]*models.Chunk, len(pieces))
	if len(pieces) > 0 {
		vectors, err := ing.embedder.EmbedBatch(ctx, pieces)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		for i, piece := range pieces {
			chunks[i] = &models.Chunk{
				ChunkIndex: i,
				ChunkText:  piece,
				Vector:     vectors[i],
			}
		}
	}

	if err := ing.store.CreateDocumentWithChunks(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	ing.logger.Debug("document ingested",
		zap.Int64("id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int("chunks", len(chunks)))
	return doc, nil
}
