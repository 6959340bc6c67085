package pipeline

import (
	"context"
	"fmt"
	"log"

	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/rag/generator"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"
)

const DefaultTopK = 5

const (
	generationFallbackText = "I could not compose an answer right now. Please try again, or contact your care team directly."
	webFallbackText        = "The knowledge base does not cover this question and external sources are unreachable right now. Please consult your care team."
)

// Pipeline is the clinical answer chain: retrieve, generate, and on an
// escalation signal search the web and generate again. One instance is
// shared by all sessions; it holds no per-request state.
type Pipeline struct {
	retriever *retriever.Retriever
	generator *generator.Generator
	searcher  websearch.Searcher
	topK      int
	logger    *log.Logger
}

func NewPipeline(r *retriever.Retriever, g *generator.Generator, s websearch.Searcher, topK int, logger *log.Logger) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Pipeline{
		retriever: r,
		generator: g,
		searcher:  s,
		topK:      topK,
		logger:    logger,
	}
}

// Answer resolves a clinical question end to end. Backend failures
// degrade to fallback text; only index failures surface as errors, so
// callers can tell "nothing matched" from "pipeline unavailable".
// When a patient is bound its diagnosis is appended to the retrieval
// query, but the generation prompts see the original question.
func (p *Pipeline) Answer(ctx context.Context, query string, patient *store.PatientRecord) (*agent.Response, error) {
	retrievalQuery := query
	if patient != nil && patient.PrimaryDiagnosis != "" {
		retrievalQuery = fmt.Sprintf("%s (Patient Diagnosis: %s)", query, patient.PrimaryDiagnosis)
	}

	chunks, err := p.retriever.Retrieve(ctx, retrievalQuery, p.topK)
	if err != nil {
		return nil, fmt.Errorf("clinical retrieval failed: %w", err)
	}

	resp, err := p.generator.Generate(ctx, query, chunks, "")
	if err != nil {
		p.logger.Printf("[PIPELINE] generation failed, falling back: %v", err)
		return agent.NewSystemResponse(generationFallbackText), nil
	}

	if resp.SourceType != agent.SourceWeb {
		return resp, nil
	}

	return p.escalate(ctx, query)
}

// escalate runs the web pass after the KB generation signalled that the
// chunks were insufficient.
func (p *Pipeline) escalate(ctx context.Context, query string) (*agent.Response, error) {
	results, err := p.searcher.Search(ctx, query)
	if err != nil {
		p.logger.Printf("[PIPELINE] web search failed, degrading to empty results: %v", err)
		results = nil
	}
	if len(results) == 0 {
		return agent.NewSystemResponse(webFallbackText), nil
	}

	resp, err := p.generator.GenerateFromWeb(ctx, query, results)
	if err != nil {
		p.logger.Printf("[PIPELINE] web generation failed, falling back: %v", err)
		return agent.NewSystemResponse(generationFallbackText), nil
	}
	return resp, nil
}
