package models

// SearchResult is a single matched chunk. Score is cosine similarity
// (1 - distance): 1.0 for identical vectors, negative for opposite ones.
type SearchResult struct {
	EmbeddingID int64   `json:"-"`
	Score       float64 `json:"score"`
	ChunkText   string  `json:"chunk_text"`
	Filename    string  `json:"filename"`
	ChunkIndex  int     `json:"chunk_index"`
	DocumentID  int64   `json:"document_id"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query          string          `json:"query"`
	Results        []*SearchResult `json:"results"`
	TotalResults   int             `json:"total_results"`
	ResponseTimeMs float64         `json:"response_time_ms"`
}

// Stats holds system-wide counters for the stats endpoint.
type Stats struct {
	TotalDocuments    int64   `json:"total_documents"`
	TotalEmbeddings   int64   `json:"total_embeddings"`
	TotalQueries      int64   `json:"total_queries"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}
