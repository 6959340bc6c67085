package websearch

import "context"

// StubSearcher returns a fixed set of nephrology follow-up sources.
// It stands in for a real search provider in environments without
// network access or a search credential.
type StubSearcher struct{}

func NewStubSearcher() *StubSearcher {
	return &StubSearcher{}
}

func (s *StubSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	return []Result{
		{
			Title:   "Latest Guidelines on Post-Discharge Nephrology Care",
			Snippet: "Recent guidance recommends early follow-up within 7 days of discharge, medication reconciliation, and close monitoring of fluid status for patients with kidney disease.",
			URL:     "https://www.kidney-care-guidelines.org/post-discharge",
		},
		{
			Title:   "Managing Chronic Kidney Disease After Hospitalization",
			Snippet: "Patients should track daily weight, watch for swelling or reduced urine output, and keep scheduled laboratory checks of creatinine and electrolytes.",
			URL:     "https://www.nephrology-today.org/ckd-after-hospitalization",
		},
	}, nil
}
