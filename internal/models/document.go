// Package models defines core data structures for documents, chunks, queries, and search results.
package models

import "time"

// Document represents an uploaded text document. Immutable once created, except for deletion.
type Document struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is one overlapping window of a document's text together with its
// embedding vector. Chunks are owned by their document and removed with it.
type Chunk struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	ChunkText  string    `json:"chunk_text"`
	Vector     []float32 `json:"-"`
}
