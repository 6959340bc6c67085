package factory

import (
	"fmt"

	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/llm/grok"
	"discharge-assist-be/pkg/llm/mock"
	"discharge-assist-be/pkg/llm/ollama"
)

// NewProvider selects the text-generation backend by name.
// An empty Grok API key always degrades to the deterministic mock so a
// missing credential never makes the pipeline unusable.
func NewProvider(providerName, model, grokBaseURL, grokAPIKey, ollamaBaseURL string) (llm.Provider, error) {
	switch providerName {
	case "grok", "":
		if grokAPIKey == "" {
			return mock.New(), nil
		}
		return grok.NewGrokProvider(grokBaseURL, grokAPIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	case "mock":
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", providerName)
	}
}
