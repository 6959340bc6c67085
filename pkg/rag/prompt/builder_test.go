package prompt

import (
	"strings"
	"testing"

	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/store"
)

func TestGroundedBuilderLayout(t *testing.T) {
	chunks := []retriever.RetrievedChunk{
		{ChunkId: "neph.pdf#p12#c3", Text: "fluid overload guidance", Source: "neph.pdf", Page: 12},
	}
	p := NewGroundedBuilder("What does swelling mean?", chunks, "").Build()

	for _, want := range []string{
		ClinicalInstruction,
		"[source: neph.pdf | page: 12 | chunk: neph.pdf#p12#c3]",
		"fluid overload guidance",
		EscalationMarker,
		Disclaimer,
		"What does swelling mean?",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("grounded prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, "Answer:") {
		t.Errorf("grounded prompt must end with the answer cue")
	}
}

func TestGroundedBuilderNoChunks(t *testing.T) {
	p := NewGroundedBuilder("anything", nil, "").Build()
	if !strings.Contains(p, "(no chunks retrieved)") {
		t.Errorf("empty retrieval must be stated explicitly")
	}
}

func TestDecisionBuildersEndWithUserInputLine(t *testing.T) {
	tests := []struct {
		name  string
		build func(input string) string
	}{
		{"reception", func(in string) string { return NewReceptionDecisionBuilder(in, nil).Build() }},
		{"triage", func(in string) string { return NewTriageDecisionBuilder(in, nil, nil).Build() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build("line one\nline two")

			// The turn text must be the last line, with newlines
			// flattened so downstream parsers can key on it.
			trimmed := strings.TrimRight(p, "\n")
			lastLine := trimmed[strings.LastIndexByte(trimmed, '\n')+1:]
			if lastLine != "User Input: line one line two" {
				t.Errorf("last line = %q", lastLine)
			}
		})
	}
}

func TestDecisionBuildersCarryLabelSets(t *testing.T) {
	reception := NewReceptionDecisionBuilder("hi", nil).Build()
	if !strings.Contains(reception, "'lookup_patient'|'ask_name'|'handoff_clinical'|'chat'") {
		t.Error("reception prompt missing its action label set")
	}

	triage := NewTriageDecisionBuilder("hi", nil, nil).Build()
	if !strings.Contains(triage, "'urgent'|'clinical'|'chat'") {
		t.Error("triage prompt missing its triage label set")
	}
}

func TestTriageBuilderPatientContext(t *testing.T) {
	patient := &store.PatientRecord{
		Name:             "John Smith",
		PrimaryDiagnosis: "Diabetic nephropathy",
		WarningSigns:     []string{"Swelling", "Shortness of breath"},
	}
	p := NewTriageDecisionBuilder("how am I doing", patient, []store.Turn{
		{Role: store.RoleUser, Text: "John Smith"},
		{Role: store.RoleAssistant, Text: "Found report."},
	}).Build()

	for _, want := range []string{
		"John Smith",
		"Diabetic nephropathy",
		"Swelling, Shortness of breath",
		"<recent_conversation>",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("triage prompt missing %q", want)
		}
	}
}
