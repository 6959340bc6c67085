package dto

import (
	"discharge-assist-be/pkg/agent"
)

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type AgentTurnRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserInput string `json:"user_input" validate:"required"`
}

type AgentTurnResponse struct {
	SessionID  string         `json:"session_id"`
	Response   string         `json:"response"`
	SourceType string         `json:"source_type"`
	Sources    []agent.Source `json:"sources"`
}

type WebSearchRequest struct {
	Query string `json:"query" validate:"required"`
}

type WebSearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

type WebSearchResponse struct {
	Results []WebSearchResult `json:"results"`
}
