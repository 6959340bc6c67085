package mock

import (
	"context"
	"strings"
	"testing"

	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/rag/prompt"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"
)

func TestGenerateTriageDecisions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
	}{
		{"chest pain is urgent", "I have crushing chest pain", `"type": "urgent"`},
		{"severe symptom is urgent", "severe headache since this morning", `"type": "urgent"`},
		{"swelling is clinical", "my ankles show swelling", `"type": "clinical"`},
		{"small talk is chat", "thanks, that was helpful", `"type": "chat"`},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prompt.NewTriageDecisionBuilder(tt.input, nil, nil).Build()

			out, err := r.Generate(context.Background(), p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(out, tt.wantType) {
				t.Errorf("output %q missing %q", out, tt.wantType)
			}
		})
	}
}

func TestGenerateReceptionDecisions(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAction string
	}{
		{"short input is a lookup", "John Smith", `"action": "lookup_patient"`},
		{"symptom hands off", "I have swelling in my legs", `"action": "handoff_clinical"`},
		{"long vague input asks for a name", "well let me tell you about how my week has been going lately", `"action": "ask_name"`},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prompt.NewReceptionDecisionBuilder(tt.input, nil).Build()

			out, err := r.Generate(context.Background(), p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(out, tt.wantAction) {
				t.Errorf("output %q missing %q", out, tt.wantAction)
			}
		})
	}
}

func TestGenerateEscalatesBeyondKnowledgeBase(t *testing.T) {
	p := prompt.NewGroundedBuilder("What is the latest research on CKD?", nil, "").Build()

	out, err := New().Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != escalationMarker {
		t.Errorf("output = %q, want the bare escalation marker", out)
	}
}

func TestGenerateWebPassNeverEscalates(t *testing.T) {
	p := prompt.NewWebBuilder("What is the latest research on CKD?", []websearch.Result{
		{Title: "Guideline A", Snippet: "follow up within 7 days", URL: "https://example.org/a"},
	}).Build()
	out, err := New().Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(strings.ToLower(out), escalationMarker) {
		t.Errorf("web pass must not emit the escalation marker: %q", out)
	}
	if !strings.Contains(out, disclaimer) {
		t.Errorf("web answer missing disclaimer: %q", out)
	}
}

func TestGenerateClinicalAnswerShape(t *testing.T) {
	p := prompt.NewGroundedBuilder("What does swelling mean after discharge?", nil, "").Build()

	out, err := New().Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "(Ref: ") {
		t.Errorf("clinical answer missing a citation: %q", out)
	}
	if !strings.HasSuffix(out, disclaimer) {
		t.Errorf("clinical answer must end with the disclaimer: %q", out)
	}
}

func TestChatUsesLastMessage(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: prompt.NewTriageDecisionBuilder("severe chest pain", &store.PatientRecord{Name: "John Smith"}, nil).Build()},
	}

	out, err := New().Chat(context.Background(), history)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.Contains(out, `"type": "urgent"`) {
		t.Errorf("output %q should classify the last message", out)
	}
}
