package mock

import (
	"context"
	"strings"

	"discharge-assist-be/pkg/llm"
)

// Responder is a deterministic, keyword-conditioned stand-in for a real
// text-generation backend. It is used whenever no API credential is
// configured so the whole pipeline stays testable offline.
//
// The canned clinical answers intentionally carry the citation format and
// the closing disclaimer the real backend is instructed to produce.
type Responder struct{}

var _ llm.Provider = &Responder{}

func New() *Responder {
	return &Responder{}
}

const (
	escalationMarker = "web_search_needed"
	disclaimer       = "Disclaimer: educational only. See clinician for medical advice."
)

func (r *Responder) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	return r.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (r *Responder) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(prompt)

	// Decision prompts ask for JSON with a known schema. Answer them with
	// JSON so the routing layer behaves the same with or without a real
	// backend.
	if strings.Contains(lower, `'urgent'|'clinical'|'chat'`) || strings.Contains(lower, `"urgent"|"clinical"|"chat"`) {
		return r.triageDecision(lower), nil
	}
	if strings.Contains(lower, "'lookup_patient'") || strings.Contains(lower, `"lookup_patient"`) {
		return r.receptionDecision(prompt), nil
	}

	// The second pass answers from web snippets and must never escalate
	// again.
	if strings.Contains(lower, "<web_results>") {
		return "Recent guidance recommends early nephrology follow-up within 7 days of discharge and close monitoring of fluid status (result 1). Patients should track daily weight and report swelling or reduced urine output promptly (result 2). " + disclaimer, nil
	}

	// Questions beyond the knowledge base trigger the escalation marker.
	if strings.Contains(lower, "latest research") || strings.Contains(lower, "newest stud") {
		return escalationMarker, nil
	}

	return cannedClinicalAnswer(lower), nil
}

// triageDecision classifies the embedded user input by keyword.
func (r *Responder) triageDecision(lowerPrompt string) string {
	input := extractUserInput(lowerPrompt)
	switch {
	case containsAny(input, "chest pain", "shortness of breath", "can't breathe", "cannot breathe", "confusion", "unconscious", "severe"):
		return `{"type": "urgent", "response": "Please go to the nearest emergency room immediately."}`
	case containsAny(input, "swelling", "pain", "urine", "edema", "nausea", "medication", "diet", "symptom"):
		return `{"type": "clinical", "response": ""}`
	default:
		return `{"type": "chat", "response": "Okay, noted. Is there anything else I can help you with?"}`
	}
}

// receptionDecision mimics the reception routing for unbound sessions.
func (r *Responder) receptionDecision(prompt string) string {
	input := extractUserInput(strings.ToLower(prompt))
	switch {
	case containsAny(input, "swelling", "pain", "medication", "diet", "symptom", "research", "treatment", "?"):
		return `{"action": "handoff_clinical"}`
	case input != "" && len(strings.Fields(input)) < 5:
		return `{"action": "lookup_patient", "name": "` + strings.TrimSpace(input) + `"}`
	default:
		return `{"action": "ask_name", "response_text": "Could you share the patient's full name so I can pull up the discharge report?"}`
	}
}

// extractUserInput pulls the text after the "User Input:" line a decision
// prompt embeds. Empty string if the prompt has no such line.
func extractUserInput(prompt string) string {
	idx := strings.LastIndex(prompt, "user input:")
	if idx == -1 {
		return ""
	}
	rest := prompt[idx+len("user input:"):]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

func cannedClinicalAnswer(lower string) string {
	switch {
	case containsAny(lower, "swelling", "edema"):
		return "Peripheral edema after discharge may indicate fluid overload related to reduced renal function. Monitor daily weight and call your clinician if swelling rapidly increases or you have shortness of breath. (Ref: comprehensive-clinical-nephrology.pdf page 12 chunk 3) " + disclaimer
	case containsAny(lower, "medication", "drug"):
		return "Please adhere strictly to your prescribed medication schedule. Do not stop taking any medication without consulting your doctor. Common side effects should be reported. (Ref: comprehensive-clinical-nephrology.pdf page 8 chunk 2) " + disclaimer
	case containsAny(lower, "diet", "food"):
		return "A low-sodium, low-potassium diet is often recommended for nephrology patients. Avoid processed foods and high-potassium fruits like bananas unless advised otherwise. (Ref: comprehensive-clinical-nephrology.pdf page 15 chunk 1) " + disclaimer
	default:
		return "I have analyzed the patient context and the clinical knowledge base. Based on the available information, I recommend monitoring vital signs and adhering to the discharge instructions. (Ref: comprehensive-clinical-nephrology.pdf page 1 chunk 1) " + disclaimer
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
