package retriever

import (
	"context"
	"fmt"
	"log"

	"discharge-assist-be/pkg/embedding"
)

// RetrievedChunk is one knowledge-base hit for a query. Ephemeral:
// produced per query, never persisted.
type RetrievedChunk struct {
	ChunkId string
	Text    string
	Source  string
	Page    int

	// Similarity is cosine similarity in [0, 1]; higher is better.
	// Results are always ordered best first, so callers only need the
	// ordering, not the metric.
	Similarity float64
}

// Index is the similarity index the retriever queries. Backed by
// pgvector in production and an in-memory store in tests.
type Index interface {
	Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]RetrievedChunk, error)
}

// Retriever embeds a query and returns the closest indexed chunks.
// The embedder must be the same instance used at indexing time;
// mixing embedding models makes the scores meaningless.
type Retriever struct {
	embedder  embedding.Provider
	index     Index
	threshold float64
	logger    *log.Logger
}

func NewRetriever(embedder embedding.Provider, index Index, threshold float64, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		index:     index,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve returns up to k chunks ordered best match first. k <= 0 or
// an empty index yields an empty result, not an error. Index failures
// propagate so callers can tell "nothing matched" from "index down".
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	if k <= 0 {
		return []RetrievedChunk{}, nil
	}

	resp, err := r.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.index.Search(ctx, resp.Embedding.Values, k, r.threshold)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	r.logger.Printf("[RETRIEVER] %d chunks for query (k=%d)", len(chunks), k)
	return chunks, nil
}
