// Package storage defines the persistence interface for documents, chunks,
// and query logs.
package storage

import (
	"context"
	"errors"

	"semsearch/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

// Store defines document, chunk, and query-log persistence operations.
type Store interface {
	// CreateDocumentWithChunks inserts the document and all its chunk rows in
	// one transaction; a failure anywhere leaves no trace of the document.
	// On success doc.ID and doc.UploadedAt are set from the database.
	CreateDocumentWithChunks(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error

	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error

	// SearchChunks returns the topK chunks nearest to vec under cosine
	// distance, joined with their owning document, scored as 1 - distance.
	SearchChunks(ctx context.Context, vec []float32, topK int) ([]*models.SearchResult, error)

	// LogSearch persists one query row and one response row per result in a
	// transaction, returning the query id.
	LogSearch(ctx context.Context, queryText string, results []*models.SearchResult, responseTimeMs float64) (int64, error)

	QueryLogs(ctx context.Context, limit int) ([]*models.QueryLog, error)
	Stats(ctx context.Context) (*models.Stats, error)

	Close()
}
