// Package search provides the semantic search pipeline.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"semsearch/internal/config"
	"semsearch/internal/embedding"
	"semsearch/internal/models"
	"semsearch/internal/storage"
	"semsearch/pkg/utils"
)

// Engine answers natural-language queries by embedding them and delegating
// nearest-neighbor lookup to the store.
type Engine struct {
	store    storage.Store
	embedder embedding.Embedder
	config   *config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates an engine with the given dependencies.
func NewEngine(store storage.Store, embedder embedding.Embedder, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		config:   cfg,
		logger:   logger,
	}
}

// Search embeds the query, fetches the topK nearest chunks, and persists the
// query/response log before returning. The log write sits on the response
// path: if it fails, the whole search fails. The reported time covers the
// embed and lookup steps.
func (e *Engine) Search(ctx context.Context, queryText string, topK int) (*models.SearchResponse, error) {
	if topK > e.config.MaxTopK {
		topK = e.config.MaxTopK
	}

	start := time.Now()
	vec, err := e.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	results, err := e.store.SearchChunks(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0

	resp := &models.SearchResponse{
		Query:          queryText,
		Results:        results,
		TotalResults:   len(results),
		ResponseTimeMs: elapsedMs,
	}

	if _, err := e.store.LogSearch(ctx, queryText, results, elapsedMs); err != nil {
		return nil, fmt.Errorf("failed to log search: %w", err)
	}

	e.logger.Debug("search completed",
		zap.String("query", utils.Truncate(queryText, 120)),
		zap.Int("results", resp.TotalResults),
		zap.Float64("elapsed_ms", elapsedMs))
	return resp, nil
}

// QueryLogs returns past queries with aggregate metrics, newest first. A
// non-positive limit falls back to the configured default; the configured
// maximum caps it.
func (e *Engine) QueryLogs(ctx context.Context, limit int) ([]*models.QueryLog, error) {
	if limit <= 0 {
		limit = e.config.DefaultLogLimit
	}
	if limit > e.config.MaxLogLimit {
		limit = e.config.MaxLogLimit
	}
	return e.store.QueryLogs(ctx, limit)
}

// Stats returns system-wide counters.
func (e *Engine) Stats(ctx context.Context) (*models.Stats, error) {
	return e.store.Stats(ctx)
}
