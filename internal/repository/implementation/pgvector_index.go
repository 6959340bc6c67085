package implementation

import (
	"context"

	"discharge-assist-be/internal/repository/contract"
	"discharge-assist-be/pkg/rag/retriever"
)

// PgvectorIndex adapts the knowledge chunk repository to the
// retriever's Index interface.
type PgvectorIndex struct {
	repo contract.KnowledgeChunkRepository
}

func NewPgvectorIndex(repo contract.KnowledgeChunkRepository) *PgvectorIndex {
	return &PgvectorIndex{repo: repo}
}

func (i *PgvectorIndex) Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]retriever.RetrievedChunk, error) {
	scored, err := i.repo.SearchSimilarWithScore(ctx, embedding, limit, threshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]retriever.RetrievedChunk, len(scored))
	for n, s := range scored {
		chunks[n] = retriever.RetrievedChunk{
			ChunkId:    s.Chunk.ChunkId,
			Text:       s.Chunk.Text,
			Source:     s.Chunk.Source,
			Page:       s.Chunk.Page,
			Similarity: s.Similarity,
		}
	}
	return chunks, nil
}
