package generator

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
)

type fakeProvider struct {
	output string
	err    error
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return f.output, f.err
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleChunks() []retriever.RetrievedChunk {
	return []retriever.RetrievedChunk{
		{ChunkId: "neph.pdf#p12#c3", Text: "fluid overload guidance", Source: "neph.pdf", Page: 12, Similarity: 0.9},
		{ChunkId: "neph.pdf#p8#c2", Text: "medication adherence", Source: "neph.pdf", Page: 8, Similarity: 0.7},
	}
}

func TestGenerateClassification(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantType agent.SourceType
	}{
		{
			name:     "grounded answer stays KB",
			output:   "Monitor daily weight. (Ref: neph.pdf page 12 chunk neph.pdf#p12#c3)",
			wantType: agent.SourceKB,
		},
		{
			name:     "bare marker flags web",
			output:   "web_search_needed",
			wantType: agent.SourceWeb,
		},
		{
			name:     "marker in mixed case flags web",
			output:   "WEB_SEARCH_NEEDED",
			wantType: agent.SourceWeb,
		},
		{
			name:     "marker embedded in prose flags web",
			output:   "I cannot answer from the provided context. Web_Search_Needed.",
			wantType: agent.SourceWeb,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&fakeProvider{output: tt.output}, testLogger())

			resp, err := g.Generate(context.Background(), "question", sampleChunks(), "")
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if resp.SourceType != tt.wantType {
				t.Errorf("SourceType = %q, want %q", resp.SourceType, tt.wantType)
			}
			if len(resp.Sources) != 2 {
				t.Fatalf("len(Sources) = %d, want 2", len(resp.Sources))
			}
			for _, s := range resp.Sources {
				if s.IsWeb() {
					t.Errorf("grounded pass must carry KB-shaped sources, got %+v", s)
				}
				if s.Page == 0 || s.ChunkId == "" {
					t.Errorf("KB source missing page or chunk id: %+v", s)
				}
			}
		})
	}
}

func TestGenerateProviderError(t *testing.T) {
	provErr := errors.New("backend down")
	g := NewGenerator(&fakeProvider{err: provErr}, testLogger())

	_, err := g.Generate(context.Background(), "question", sampleChunks(), "")
	if !errors.Is(err, provErr) {
		t.Fatalf("err = %v, want wrapped %v", err, provErr)
	}
}

func TestGenerateFromWebSources(t *testing.T) {
	results := []websearch.Result{
		{Title: "Guideline A", Snippet: "follow up in 7 days", URL: "https://example.org/a"},
		{Title: "Guideline B", Snippet: "track daily weight", URL: "https://example.org/b"},
	}
	g := NewGenerator(&fakeProvider{output: "Answer from the web."}, testLogger())

	resp, err := g.GenerateFromWeb(context.Background(), "question", results)
	if err != nil {
		t.Fatalf("GenerateFromWeb: %v", err)
	}
	if resp.SourceType != agent.SourceWeb {
		t.Errorf("SourceType = %q, want %q", resp.SourceType, agent.SourceWeb)
	}
	if len(resp.Sources) != len(results) {
		t.Fatalf("len(Sources) = %d, want %d", len(resp.Sources), len(results))
	}
	for i, s := range resp.Sources {
		if !s.IsWeb() {
			t.Errorf("source %d is not web shaped: %+v", i, s)
		}
		if s.Title == "" || s.URL == "" {
			t.Errorf("web source %d missing title or url: %+v", i, s)
		}
		if s.Page != 0 || s.ChunkId != "" {
			t.Errorf("web source %d carries KB fields: %+v", i, s)
		}
	}
}
