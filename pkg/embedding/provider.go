package embedding

// Task types hint the provider at how the text will be used. Providers
// that make no distinction ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// Provider defines the interface for generating text embeddings.
// Retrieval only makes sense when queries and documents go through the
// same provider (and model); the bootstrap wires exactly one instance
// into both the indexing consumer and the retriever.
type Provider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// Dimension returns the vector size this provider produces.
	Dimension() int
}
