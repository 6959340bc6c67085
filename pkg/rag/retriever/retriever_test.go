package retriever

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"discharge-assist-be/pkg/embedding"
)

// fakeIndex records the search call and serves fixed results.
type fakeIndex struct {
	results   []RetrievedChunk
	err       error
	gotLimit  int
	gotThresh float64
	calls     int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int, threshold float64) ([]RetrievedChunk, error) {
	f.calls++
	f.gotLimit = limit
	f.gotThresh = threshold
	return f.results, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveOrderingPreserved(t *testing.T) {
	index := &fakeIndex{results: []RetrievedChunk{
		{ChunkId: "a#p1#c0", Similarity: 0.92},
		{ChunkId: "a#p2#c1", Similarity: 0.80},
		{ChunkId: "b#p1#c0", Similarity: 0.55},
	}}
	r := NewRetriever(embedding.NewHashingProvider(64), index, 0.1, testLogger())

	chunks, err := r.Retrieve(context.Background(), "swelling after discharge", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("len = %d, want 3", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Similarity > chunks[i-1].Similarity {
			t.Errorf("result %d (%f) scored higher than result %d (%f)", i, chunks[i].Similarity, i-1, chunks[i-1].Similarity)
		}
	}
	if index.gotLimit != 3 {
		t.Errorf("index limit = %d, want 3", index.gotLimit)
	}
	if index.gotThresh != 0.1 {
		t.Errorf("index threshold = %f, want 0.1", index.gotThresh)
	}
}

func TestRetrieveNonPositiveK(t *testing.T) {
	for _, k := range []int{0, -1} {
		index := &fakeIndex{}
		r := NewRetriever(embedding.NewHashingProvider(64), index, 0, testLogger())

		chunks, err := r.Retrieve(context.Background(), "anything", k)
		if err != nil {
			t.Fatalf("k=%d: unexpected error %v", k, err)
		}
		if chunks == nil || len(chunks) != 0 {
			t.Errorf("k=%d: want empty non-nil slice, got %#v", k, chunks)
		}
		if index.calls != 0 {
			t.Errorf("k=%d: index must not be queried", k)
		}
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	index := &fakeIndex{results: []RetrievedChunk{}}
	r := NewRetriever(embedding.NewHashingProvider(64), index, 0, testLogger())

	chunks, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("len = %d, want 0", len(chunks))
	}
}

func TestRetrieveIndexErrorPropagates(t *testing.T) {
	indexErr := errors.New("index unavailable")
	index := &fakeIndex{err: indexErr}
	r := NewRetriever(embedding.NewHashingProvider(64), index, 0, testLogger())

	_, err := r.Retrieve(context.Background(), "anything", 5)
	if !errors.Is(err, indexErr) {
		t.Fatalf("err = %v, want wrapped %v", err, indexErr)
	}
}
