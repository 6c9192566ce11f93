package models

import (
	"fmt"
	"time"
)

// SearchQuery is the body of a search request. TopK is a pointer so that an
// explicit 0 (valid, returns no results) is distinguishable from an omitted field.
type SearchQuery struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// Validate checks the query and resolves TopK, using defaultTopK when the
// field was omitted. Returns an error for a negative top_k.
func (q *SearchQuery) Validate(defaultTopK int) (int, error) {
	topK := defaultTopK
	if q.TopK != nil {
		topK = *q.TopK
	}
	if topK < 0 {
		return 0, fmt.Errorf("top_k must be non-negative, got %d", topK)
	}
	return topK, nil
}

// QueryLog is one row of the query log listing: a past query with aggregate
// response metrics.
type QueryLog struct {
	ID            int64     `json:"id"`
	QueryText     string    `json:"query_text"`
	Timestamp     time.Time `json:"timestamp"`
	ResponseCount int       `json:"response_count"`
	AvgScore      float64   `json:"avg_score"`
}
