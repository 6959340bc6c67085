package router

import (
	"encoding/json"
	"strings"
)

// Backend routing decisions arrive as JSON embedded in free text.
// Parsing runs through an ordered strategy chain: typed JSON validation
// first, then an input heuristic, then a generic fallback that always
// succeeds. The router therefore always ends up with a usable decision.

const (
	ActionLookupPatient   = "lookup_patient"
	ActionAskName         = "ask_name"
	ActionHandoffClinical = "handoff_clinical"
	ActionChat            = "chat"

	TriageUrgent   = "urgent"
	TriageClinical = "clinical"
	TriageChat     = "chat"
)

// nameWordLimit is the heuristic cut-off: shorter inputs are treated as
// a patient name, longer ones as free chat.
const nameWordLimit = 5

const genericRepeatText = "I'm sorry, I didn't quite catch that. Could you repeat it?"

type receptionDecision struct {
	Action       string `json:"action"`
	Name         string `json:"name"`
	ResponseText string `json:"response_text"`
}

type triageDecision struct {
	Type     string `json:"type"`
	Response string `json:"response"`
}

// receptionStrategy tries to derive a decision from the backend output
// and the raw turn text. ok=false passes control to the next strategy.
type receptionStrategy func(backendOutput, userText string) (*receptionDecision, bool)

var receptionStrategies = []receptionStrategy{
	parseReceptionJSON,
	receptionInputHeuristic,
	receptionGenericFallback,
}

func decideReception(backendOutput, userText string) *receptionDecision {
	for _, strategy := range receptionStrategies {
		if d, ok := strategy(backendOutput, userText); ok {
			return d
		}
	}
	// unreachable: the generic fallback always succeeds
	return &receptionDecision{Action: ActionChat, ResponseText: genericRepeatText}
}

func parseReceptionJSON(backendOutput, _ string) (*receptionDecision, bool) {
	raw := extractJSON(backendOutput)
	if raw == "" {
		return nil, false
	}
	var d receptionDecision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, false
	}
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	switch d.Action {
	case ActionLookupPatient, ActionAskName, ActionHandoffClinical, ActionChat:
		return &d, true
	}
	return nil, false
}

func receptionInputHeuristic(backendOutput, userText string) (*receptionDecision, bool) {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return nil, false
	}
	if len(strings.Fields(trimmed)) < nameWordLimit {
		return &receptionDecision{Action: ActionLookupPatient, Name: trimmed}, true
	}
	// Longer inputs read as free chat; surface the backend's own text
	// when it produced any.
	if text := strings.TrimSpace(backendOutput); text != "" {
		return &receptionDecision{Action: ActionChat, ResponseText: text}, true
	}
	return nil, false
}

func receptionGenericFallback(_, _ string) (*receptionDecision, bool) {
	return &receptionDecision{Action: ActionChat, ResponseText: genericRepeatText}, true
}

type triageStrategy func(backendOutput, userText string) (*triageDecision, bool)

var triageStrategies = []triageStrategy{
	parseTriageJSON,
	triageSymptomHeuristic,
	triageGenericFallback,
}

func decideTriage(backendOutput, userText string) *triageDecision {
	for _, strategy := range triageStrategies {
		if d, ok := strategy(backendOutput, userText); ok {
			return d
		}
	}
	return &triageDecision{Type: TriageChat, Response: genericRepeatText}
}

func parseTriageJSON(backendOutput, _ string) (*triageDecision, bool) {
	raw := extractJSON(backendOutput)
	if raw == "" {
		return nil, false
	}
	var d triageDecision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, false
	}
	d.Type = strings.ToLower(strings.TrimSpace(d.Type))
	switch d.Type {
	case TriageUrgent, TriageClinical, TriageChat:
		return &d, true
	}
	return nil, false
}

// symptomTerms route to the clinical flow when the backend decision is
// unparseable.
var symptomTerms = []string{"swelling", "pain", "urine", "edema", "nausea", "dizzy", "fever", "medication", "symptom"}

func triageSymptomHeuristic(_, userText string) (*triageDecision, bool) {
	lower := strings.ToLower(userText)
	for _, term := range symptomTerms {
		if strings.Contains(lower, term) {
			return &triageDecision{Type: TriageClinical}, true
		}
	}
	return nil, false
}

func triageGenericFallback(backendOutput, _ string) (*triageDecision, bool) {
	if text := strings.TrimSpace(backendOutput); text != "" && !strings.ContainsAny(text, "{}") {
		return &triageDecision{Type: TriageChat, Response: text}, true
	}
	return &triageDecision{Type: TriageChat, Response: genericRepeatText}, true
}

// extractJSON returns the substring between the first '{' and the last
// '}' of the backend output, or "" when no such pair exists.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
