package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"discharge-assist-be/internal/entity"
	"discharge-assist-be/pkg/rag/retriever"
)

// ChunkIndex is a process-local similarity index over knowledge chunks.
// It backs the retriever in offline and test setups where no pgvector
// database is available. Writes take the write lock; searches run under
// the read lock, so a reader sees either the old or the new chunk for a
// given id, never a partial write.
type ChunkIndex struct {
	mu     sync.RWMutex
	chunks map[string]*entity.KnowledgeChunk
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{
		chunks: make(map[string]*entity.KnowledgeChunk),
	}
}

func (i *ChunkIndex) Upsert(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	c := *chunk
	i.chunks[c.ChunkId] = &c
	return nil
}

func (i *ChunkIndex) UpsertBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, chunk := range chunks {
		c := *chunk
		i.chunks[c.ChunkId] = &c
	}
	return nil
}

func (i *ChunkIndex) DeleteBySource(ctx context.Context, source string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, c := range i.chunks {
		if c.Source == source {
			delete(i.chunks, id)
		}
	}
	return nil
}

func (i *ChunkIndex) Count(ctx context.Context) (int64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int64(len(i.chunks)), nil
}

// Search brute-forces cosine similarity over every stored chunk and
// returns the best matches first. Fine for the corpus sizes this index
// is meant for.
func (i *ChunkIndex) Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]retriever.RetrievedChunk, error) {
	if limit <= 0 {
		return []retriever.RetrievedChunk{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	matches := make([]retriever.RetrievedChunk, 0, len(i.chunks))
	for _, c := range i.chunks {
		sim := cosineSimilarity(embedding, c.Embedding)
		if sim < threshold {
			continue
		}
		matches = append(matches, retriever.RetrievedChunk{
			ChunkId:    c.ChunkId,
			Text:       c.Text,
			Source:     c.Source,
			Page:       c.Page,
			Similarity: sim,
		})
	}

	sort.Slice(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
