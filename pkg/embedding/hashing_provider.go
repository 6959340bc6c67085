package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// HashingProvider is a deterministic, dependency-free embedder used when
// no embedding model is reachable. Each token is feature-hashed into a
// fixed number of buckets; the resulting bag-of-words vector is
// normalized so cosine similarity behaves the same as with a real model.
//
// The vectors are crude, but queries and documents sharing vocabulary
// still land close together, which is all offline tests and demos need.
type HashingProvider struct {
	Dims int
}

var _ Provider = &HashingProvider{}

func NewHashingProvider(dims int) *HashingProvider {
	if dims <= 0 {
		dims = 256
	}
	return &HashingProvider{Dims: dims}
}

func (p *HashingProvider) Dimension() int {
	return p.Dims
}

func (p *HashingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	values := make([]float32, p.Dims)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		bucket := int(h.Sum32()) % p.Dims
		if bucket < 0 {
			bucket += p.Dims
		}
		values[bucket]++
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(values),
		},
	}, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
