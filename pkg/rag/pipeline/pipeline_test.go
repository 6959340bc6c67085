package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"discharge-assist-be/internal/entity"
	"discharge-assist-be/internal/repository/memory"
	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/embedding"
	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/llm/mock"
	"discharge-assist-be/pkg/rag/generator"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"
)

type failingProvider struct{ err error }

func (f *failingProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return "", f.err
}

func (f *failingProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", f.err
}

type failingSearcher struct{ err error }

func (f *failingSearcher) Search(_ context.Context, _ string) ([]websearch.Result, error) {
	return nil, f.err
}

type emptySearcher struct{}

func (emptySearcher) Search(_ context.Context, _ string) ([]websearch.Result, error) {
	return []websearch.Result{}, nil
}

type brokenIndex struct{ err error }

func (b *brokenIndex) Search(_ context.Context, _ []float32, _ int, _ float64) ([]retriever.RetrievedChunk, error) {
	return nil, b.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newOfflinePipeline wires the pipeline exactly like the offline
// bootstrap: hashing embedder, in-memory index, deterministic backend,
// stub web search.
func newOfflinePipeline(t *testing.T, provider llm.Provider, searcher websearch.Searcher, seed []*entity.KnowledgeChunk) *Pipeline {
	t.Helper()

	embedder := embedding.NewHashingProvider(64)
	index := memory.NewChunkIndex()
	for _, c := range seed {
		resp, err := embedder.Generate(c.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			t.Fatalf("embed seed chunk: %v", err)
		}
		c.Embedding = resp.Embedding.Values
		if err := index.Upsert(context.Background(), c); err != nil {
			t.Fatalf("seed index: %v", err)
		}
	}

	r := retriever.NewRetriever(embedder, index, 0, testLogger())
	g := generator.NewGenerator(provider, testLogger())
	return NewPipeline(r, g, searcher, DefaultTopK, testLogger())
}

func TestAnswerGroundedInKnowledgeBase(t *testing.T) {
	seed := []*entity.KnowledgeChunk{
		{ChunkId: "neph.pdf#p12#c3", Text: "swelling and fluid overload after discharge", Source: "neph.pdf", Page: 12},
		{ChunkId: "neph.pdf#p8#c2", Text: "medication adherence after discharge", Source: "neph.pdf", Page: 8},
	}
	p := newOfflinePipeline(t, mock.New(), websearch.NewStubSearcher(), seed)

	resp, err := p.Answer(context.Background(), "What does swelling in my legs mean?", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.SourceType != agent.SourceKB {
		t.Fatalf("SourceType = %q, want %q", resp.SourceType, agent.SourceKB)
	}
	if len(resp.Sources) == 0 {
		t.Fatal("KB answer must carry chunk sources")
	}
	for _, s := range resp.Sources {
		if s.ChunkId == "" || s.Page == 0 {
			t.Errorf("KB source missing page or chunk id: %+v", s)
		}
	}
	if !strings.Contains(resp.Response, "Disclaimer:") {
		t.Errorf("clinical answer missing disclaimer: %q", resp.Response)
	}
}

func TestAnswerEscalatesToWeb(t *testing.T) {
	// No seeded chunks and a question the deterministic backend always
	// escalates on.
	p := newOfflinePipeline(t, mock.New(), websearch.NewStubSearcher(), nil)

	resp, err := p.Answer(context.Background(), "What is the latest research on CKD treatment?", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.SourceType != agent.SourceWeb {
		t.Fatalf("SourceType = %q, want %q", resp.SourceType, agent.SourceWeb)
	}
	if len(resp.Sources) == 0 {
		t.Fatal("web answer must carry web sources")
	}
	for _, s := range resp.Sources {
		if !s.IsWeb() {
			t.Errorf("escalated answer carries a non-web source: %+v", s)
		}
		if s.ChunkId != "" {
			t.Errorf("escalated answer leaked a KB source: %+v", s)
		}
	}
}

func TestAnswerPatientContextShapesRetrievalOnly(t *testing.T) {
	seed := []*entity.KnowledgeChunk{
		{ChunkId: "neph.pdf#p12#c3", Text: "swelling and fluid overload after discharge", Source: "neph.pdf", Page: 12},
	}
	p := newOfflinePipeline(t, mock.New(), websearch.NewStubSearcher(), seed)
	patient := &store.PatientRecord{ID: "p1", Name: "John Smith", PrimaryDiagnosis: "Diabetic nephropathy"}

	resp, err := p.Answer(context.Background(), "What does swelling mean?", patient)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.SourceType != agent.SourceKB {
		t.Fatalf("SourceType = %q, want %q", resp.SourceType, agent.SourceKB)
	}
}

func TestAnswerGenerationFailureFallsBack(t *testing.T) {
	p := newOfflinePipeline(t, &failingProvider{err: errors.New("backend down")}, websearch.NewStubSearcher(), nil)

	resp, err := p.Answer(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("generation failure must degrade, not error: %v", err)
	}
	if resp.SourceType != agent.SourceSystem {
		t.Errorf("SourceType = %q, want %q", resp.SourceType, agent.SourceSystem)
	}
	if resp.Response != generationFallbackText {
		t.Errorf("Response = %q, want %q", resp.Response, generationFallbackText)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("fallback must carry no sources, got %d", len(resp.Sources))
	}
}

func TestAnswerIndexFailurePropagates(t *testing.T) {
	indexErr := errors.New("index unavailable")
	r := retriever.NewRetriever(embedding.NewHashingProvider(64), &brokenIndex{err: indexErr}, 0, testLogger())
	g := generator.NewGenerator(mock.New(), testLogger())
	p := NewPipeline(r, g, websearch.NewStubSearcher(), DefaultTopK, testLogger())

	_, err := p.Answer(context.Background(), "anything", nil)
	if !errors.Is(err, indexErr) {
		t.Fatalf("err = %v, want wrapped %v", err, indexErr)
	}
}

func TestEscalationDegradations(t *testing.T) {
	tests := []struct {
		name     string
		searcher websearch.Searcher
	}{
		{"search error", &failingSearcher{err: errors.New("dns failure")}},
		{"no results", emptySearcher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newOfflinePipeline(t, mock.New(), tt.searcher, nil)

			resp, err := p.Answer(context.Background(), "What is the latest research on CKD treatment?", nil)
			if err != nil {
				t.Fatalf("web degradation must not error: %v", err)
			}
			if resp.SourceType != agent.SourceSystem {
				t.Errorf("SourceType = %q, want %q", resp.SourceType, agent.SourceSystem)
			}
			if resp.Response != webFallbackText {
				t.Errorf("Response = %q, want %q", resp.Response, webFallbackText)
			}
		})
	}
}
