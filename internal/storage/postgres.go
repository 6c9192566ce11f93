// Package storage provides the Postgres implementation of the Store
// interface, using the pgvector extension for nearest-neighbor search.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"semsearch/internal/models"
)

// NewPool creates a connection pool for url. pgvector types are registered on
// every connection. The pool is an explicit handle: created once at startup,
// passed to NewPostgresStore, closed at shutdown.
func NewPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// PostgresStore implements Store on a pgxpool.Pool.
type PostgresStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewPostgresStore wraps pool. dimensions is the vector column width used by
// InitSchema; it must match the embedder's output dimension.
func NewPostgresStore(pool *pgxpool.Pool, dimensions int) *PostgresStore {
	return &PostgresStore{pool: pool, dimensions: dimensions}
}

// InitSchema creates the pgvector extension, tables, and indexes. Idempotent.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS documents (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT NOT NULL,
		content TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS embeddings (
		id BIGSERIAL PRIMARY KEY,
		document_id BIGINT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		chunk_index INT NOT NULL,
		chunk_text TEXT NOT NULL,
		vector vector(%d) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_embeddings_document_id ON embeddings(document_id);
	CREATE INDEX IF NOT EXISTS idx_embeddings_vector ON embeddings
		USING ivfflat (vector vector_cosine_ops) WITH (lists = 100);

	CREATE TABLE IF NOT EXISTS queries (
		id BIGSERIAL PRIMARY KEY,
		query_text TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		response_time_ms DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS responses (
		id BIGSERIAL PRIMARY KEY,
		query_id BIGINT NOT NULL REFERENCES queries(id) ON DELETE CASCADE,
		embedding_id BIGINT NOT NULL REFERENCES embeddings(id) ON DELETE CASCADE,
		score DOUBLE PRECISION NOT NULL,
		response_text TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_query_id ON responses(query_id);
	`, s.dimensions)

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateDocumentWithChunks inserts the document and its chunks atomically.
func (s *PostgresStore) CreateDocumentWithChunks(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO documents (filename, content) VALUES ($1, $2) RETURNING id, uploaded_at`,
		doc.Filename, doc.Content,
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for _, chunk := range chunks {
		chunk.DocumentID = doc.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO embeddings (document_id, chunk_index, chunk_text, vector)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			chunk.DocumentID, chunk.ChunkIndex, chunk.ChunkText, pgvector.NewVector(chunk.Vector),
		).Scan(&chunk.ID)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}
	return nil
}

// GetDocument returns a document by id, or ErrNotFound.
func (s *PostgresStore) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, content, uploaded_at FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.Content, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *PostgresStore) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, content, uploaded_at FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Content, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document by id. Chunk and response rows go with it
// via ON DELETE CASCADE, in the same statement.
func (s *PostgresStore) DeleteDocument(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return nil
}

// SearchChunks delegates nearest-neighbor search to pgvector's cosine
// distance operator; this single query is the entire similarity search.
func (s *PostgresStore) SearchChunks(ctx context.Context, vec []float32, topK int) ([]*models.SearchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			e.id,
			1 - (e.vector <=> $1) AS score,
			e.chunk_text,
			e.chunk_index,
			d.filename,
			d.id
		FROM embeddings e
		JOIN documents d ON e.document_id = d.id
		ORDER BY e.vector <=> $1
		LIMIT $2`,
		pgvector.NewVector(vec), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	results := make([]*models.SearchResult, 0, topK)
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.EmbeddingID, &r.Score, &r.ChunkText, &r.ChunkIndex, &r.Filename, &r.DocumentID); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// LogSearch records the query and one response row per result in a transaction.
func (s *PostgresStore) LogSearch(ctx context.Context, queryText string, results []*models.SearchResult, responseTimeMs float64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var queryID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO queries (query_text, response_time_ms) VALUES ($1, $2) RETURNING id`,
		queryText, responseTimeMs,
	).Scan(&queryID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert query: %w", err)
	}

	for _, r := range results {
		_, err = tx.Exec(ctx,
			`INSERT INTO responses (query_id, embedding_id, score, response_text) VALUES ($1, $2, $3, $4)`,
			queryID, r.EmbeddingID, r.Score, r.ChunkText,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert response: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit query log: %w", err)
	}
	return queryID, nil
}

// QueryLogs returns past queries with response counts and average scores,
// newest first.
func (s *PostgresStore) QueryLogs(ctx context.Context, limit int) ([]*models.QueryLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			q.id,
			q.query_text,
			q.timestamp,
			COUNT(r.id),
			COALESCE(AVG(r.score), 0)
		FROM queries q
		LEFT JOIN responses r ON q.id = r.query_id
		GROUP BY q.id, q.query_text, q.timestamp
		ORDER BY q.timestamp DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.QueryLog, 0)
	for rows.Next() {
		var l models.QueryLog
		if err := rows.Scan(&l.ID, &l.QueryText, &l.Timestamp, &l.ResponseCount, &l.AvgScore); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// Stats returns system-wide counters. The average response time is computed
// from the recorded per-query times, zero when no queries exist.
func (s *PostgresStore) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM embeddings),
			(SELECT COUNT(*) FROM queries),
			(SELECT COALESCE(AVG(response_time_ms), 0) FROM queries)`,
	).Scan(&stats.TotalDocuments, &stats.TotalEmbeddings, &stats.TotalQueries, &stats.AvgResponseTimeMs)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
