package generator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/rag/prompt"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
)

// Generator turns a query plus grounding material into an agent
// response, classifying the backend's output as knowledge-grounded or
// escalate-to-web.
type Generator struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewGenerator(provider llm.Provider, logger *log.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// Generate runs one grounded generation pass over the retrieved chunks.
// If the backend emits the escalation marker the result carries
// SourceWeb as a signal for the caller to run the web pass; the
// returned sources are still the KB chunks and are not final.
func (g *Generator) Generate(ctx context.Context, query string, chunks []retriever.RetrievedChunk, instruction string) (*agent.Response, error) {
	promptText := prompt.NewGroundedBuilder(query, chunks, instruction).Build()

	text, err := g.provider.Generate(ctx, promptText, llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("grounded generation failed: %w", err)
	}

	sources := ChunksToSources(chunks)
	if strings.Contains(strings.ToLower(text), prompt.EscalationMarker) {
		g.logger.Printf("[GENERATOR] escalation marker detected, flagging for web search")
		return &agent.Response{
			Response:   text,
			SourceType: agent.SourceWeb,
			Sources:    sources,
		}, nil
	}

	return &agent.Response{
		Response:   text,
		SourceType: agent.SourceKB,
		Sources:    sources,
	}, nil
}

// GenerateFromWeb runs the second grounded pass over web snippets. The
// result's sources are the web results; whatever KB chunks triggered
// the escalation are discarded here.
func (g *Generator) GenerateFromWeb(ctx context.Context, query string, results []websearch.Result) (*agent.Response, error) {
	promptText := prompt.NewWebBuilder(query, results).Build()

	text, err := g.provider.Generate(ctx, promptText, llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("web generation failed: %w", err)
	}

	return &agent.Response{
		Response:   text,
		SourceType: agent.SourceWeb,
		Sources:    ResultsToSources(results),
	}, nil
}

// ChunksToSources maps retrieved chunks to KB-shaped sources.
func ChunksToSources(chunks []retriever.RetrievedChunk) []agent.Source {
	sources := make([]agent.Source, len(chunks))
	for i, c := range chunks {
		sources[i] = agent.Source{
			Source:     c.Source,
			Page:       c.Page,
			ChunkId:    c.ChunkId,
			Similarity: c.Similarity,
		}
	}
	return sources
}

// ResultsToSources maps web results to web-shaped sources.
func ResultsToSources(results []websearch.Result) []agent.Source {
	sources := make([]agent.Source, len(results))
	for i, r := range results {
		sources[i] = agent.Source{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.URL,
		}
	}
	return sources
}
