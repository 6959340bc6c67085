package entity

import "time"

// KnowledgeChunk is one retrievable span of reference text, keyed by a
// stable ChunkId. Re-indexing the same id replaces the stored text,
// embedding and metadata (upsert semantics).
type KnowledgeChunk struct {
	ChunkId   string // "<source>#p<page>#c<n>", deterministic per ingest
	Text      string
	Source    string
	Page      int
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
