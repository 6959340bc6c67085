package agent

// SourceType tells the caller where the answer text came from.
type SourceType string

const (
	// SourceSystem marks deterministic or conversational responses with
	// no grounding material behind them.
	SourceSystem SourceType = "System"
	// SourceKB marks answers grounded in knowledge-base chunks.
	SourceKB SourceType = "KB"
	// SourceWeb marks answers grounded in external web results.
	SourceWeb SourceType = "Web"
)

// Source is one piece of grounding material behind an answer. Exactly
// one shape is populated: knowledge-base sources carry Source, Page and
// ChunkId; web sources carry Title and URL.
type Source struct {
	// Knowledge-base shape
	Source     string  `json:"source,omitempty"`
	Page       int     `json:"page,omitempty"`
	ChunkId    string  `json:"chunk_id,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`

	// Web shape
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

// IsWeb reports whether the source is web-result shaped.
func (s Source) IsWeb() bool {
	return s.URL != ""
}

// Response is the single result type every conversational component
// returns. Invariants: SourceType System means Sources is empty; KB
// means every source has page and chunk id; Web means every source has
// url and title.
type Response struct {
	Response   string     `json:"response"`
	SourceType SourceType `json:"source_type"`
	Sources    []Source   `json:"sources"`
}

// NewSystemResponse wraps plain text with no grounding sources.
func NewSystemResponse(text string) *Response {
	return &Response{
		Response:   text,
		SourceType: SourceSystem,
		Sources:    []Source{},
	}
}
