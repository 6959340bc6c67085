package router

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/store"
)

// fakeProvider returns a fixed output, or fails, and counts its calls.
type fakeProvider struct {
	output string
	err    error
	calls  int
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	return f.output, f.err
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

// fakeDirectory serves a fixed record list or a fixed error.
type fakeDirectory struct {
	records []*store.PatientRecord
	err     error
}

func (f *fakeDirectory) FindByName(_ context.Context, _ string) ([]*store.PatientRecord, error) {
	return f.records, f.err
}

func (f *fakeDirectory) GetByID(_ context.Context, _ string) (*store.PatientRecord, error) {
	if len(f.records) == 0 {
		return nil, nil
	}
	return f.records[0], nil
}

func newTestRouter(provider llm.Provider, directory PatientDirectory, hook UrgentHook) (*Router, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	return NewRouter(provider, directory, hook, logger), &buf
}

func demoPatient() *store.PatientRecord {
	return &store.PatientRecord{
		ID:               "11111111-1111-1111-1111-111111111111",
		Name:             "John Smith",
		DischargeDate:    "2024-01-15",
		PrimaryDiagnosis: "Acute on chronic kidney disease",
		Medications:      []string{"Lisinopril 10mg", "Furosemide 40mg"},
	}
}

func TestRouteGreetingBypassesBackend(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain hi", "hi"},
		{"mixed case", "Hello"},
		{"good morning mixed case", "Good Morning"},
		{"padded", "  hi  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{output: "should never be used"}
			r, _ := newTestRouter(provider, &fakeDirectory{}, nil)
			session := store.NewSession()

			outcome := r.Route(context.Background(), session, tt.input)

			if provider.calls != 0 {
				t.Fatalf("backend called %d times for a bare greeting", provider.calls)
			}
			if outcome.Handoff {
				t.Fatal("greeting must not hand off")
			}
			if outcome.Response.SourceType != agent.SourceSystem {
				t.Errorf("SourceType = %q, want %q", outcome.Response.SourceType, agent.SourceSystem)
			}
			if !strings.Contains(outcome.Response.Response, tt.input) {
				t.Errorf("greeting reply %q must echo the input %q", outcome.Response.Response, tt.input)
			}
		})
	}
}

func TestRouteNonGreetingReachesBackend(t *testing.T) {
	// Only bare greeting tokens take the fast path; punctuated
	// variants go through the routing prompt like any other input.
	inputs := []string{"hi there, I have a question", "Hello!", "hey."}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			provider := &fakeProvider{output: `{"action": "ask_name", "response_text": "Who is the patient?"}`}
			r, _ := newTestRouter(provider, &fakeDirectory{}, nil)
			session := store.NewSession()

			outcome := r.Route(context.Background(), session, input)

			if provider.calls != 1 {
				t.Fatalf("backend calls = %d, want 1", provider.calls)
			}
			if outcome.Response.Response != "Who is the patient?" {
				t.Errorf("Response = %q", outcome.Response.Response)
			}
		})
	}
}

func TestRouteLookupBindsAndSummarizes(t *testing.T) {
	patient := demoPatient()
	provider := &fakeProvider{output: `{"action": "lookup_patient", "name": "John Smith"}`}
	r, _ := newTestRouter(provider, &fakeDirectory{records: []*store.PatientRecord{patient}}, nil)
	session := store.NewSession()

	outcome := r.Route(context.Background(), session, "John Smith")

	if !session.Bound() {
		t.Fatal("session must be bound after a successful lookup")
	}
	if session.PatientID != patient.ID {
		t.Errorf("PatientID = %q, want %q", session.PatientID, patient.ID)
	}
	text := outcome.Response.Response
	for _, want := range []string{patient.DischargeDate, patient.PrimaryDiagnosis, "Lisinopril 10mg", triageFollowUpQuestion} {
		if !strings.Contains(text, want) {
			t.Errorf("summary %q missing %q", text, want)
		}
	}
}

func TestRouteLookupFailures(t *testing.T) {
	tests := []struct {
		name      string
		directory *fakeDirectory
		wantText  string
	}{
		{"no match", &fakeDirectory{}, patientNotFoundText},
		{"directory error", &fakeDirectory{err: errors.New("connection refused")}, directoryDownText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{output: `{"action": "lookup_patient", "name": "Nobody"}`}
			r, _ := newTestRouter(provider, tt.directory, nil)
			session := store.NewSession()

			outcome := r.Route(context.Background(), session, "Nobody")

			if session.Bound() {
				t.Fatal("session must stay unbound")
			}
			if outcome.Response.Response != tt.wantText {
				t.Errorf("Response = %q, want %q", outcome.Response.Response, tt.wantText)
			}
		})
	}
}

func TestRouteReceptionHandoff(t *testing.T) {
	provider := &fakeProvider{output: `{"action": "handoff_clinical"}`}
	r, _ := newTestRouter(provider, &fakeDirectory{}, nil)
	session := store.NewSession()

	outcome := r.Route(context.Background(), session, "why are my ankles swollen after discharge")

	if !outcome.Handoff {
		t.Fatal("expected a clinical hand-off")
	}
	if outcome.Response != nil {
		t.Errorf("hand-off outcome must not carry a response, got %q", outcome.Response.Response)
	}
	if session.PendingStep != store.StepClinical {
		t.Errorf("PendingStep = %q, want %q", session.PendingStep, store.StepClinical)
	}
}

func TestRouteTriageUrgent(t *testing.T) {
	provider := &fakeProvider{output: `{"type": "urgent", "response": ""}`}
	hookCalls := 0
	var hookText string
	hook := func(_ context.Context, _ *store.Session, userText string) {
		hookCalls++
		hookText = userText
	}
	r, logBuf := newTestRouter(provider, &fakeDirectory{}, hook)

	session := store.NewSession()
	session.Bind(demoPatient())
	input := "I have severe chest pain"

	outcome := r.Route(context.Background(), session, input)

	if outcome.Handoff {
		t.Fatal("urgent must never hand off to the clinical flow")
	}
	if outcome.Response.SourceType != agent.SourceSystem {
		t.Errorf("SourceType = %q, want %q", outcome.Response.SourceType, agent.SourceSystem)
	}
	if outcome.Response.Response != emergencyFallbackText {
		t.Errorf("Response = %q, want %q", outcome.Response.Response, emergencyFallbackText)
	}
	if hookCalls != 1 || hookText != input {
		t.Errorf("urgent hook: calls=%d text=%q", hookCalls, hookText)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "[URGENT]") || !strings.Contains(logged, "session="+session.ID) {
		t.Errorf("urgent turn not logged with session id: %q", logged)
	}
}

func TestRouteTriageClinicalHandsOff(t *testing.T) {
	provider := &fakeProvider{output: `{"type": "clinical", "response": ""}`}
	r, _ := newTestRouter(provider, &fakeDirectory{}, nil)

	session := store.NewSession()
	session.Bind(demoPatient())

	outcome := r.Route(context.Background(), session, "my ankles are swollen")

	if !outcome.Handoff {
		t.Fatal("clinical triage must hand off")
	}
	if session.PendingStep != store.StepClinical {
		t.Errorf("PendingStep = %q, want %q", session.PendingStep, store.StepClinical)
	}
}

func TestRouteBackendFailureDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	patient := demoPatient()
	r, _ := newTestRouter(provider, &fakeDirectory{records: []*store.PatientRecord{patient}}, nil)
	session := store.NewSession()

	// Unbound + short input: the heuristic treats it as a name lookup.
	outcome := r.Route(context.Background(), session, "John Smith")
	if !session.Bound() {
		t.Fatal("heuristic lookup must still bind on backend failure")
	}

	// Bound + symptom keyword: the heuristic routes to clinical.
	outcome = r.Route(context.Background(), session, "swelling is getting worse")
	if !outcome.Handoff {
		t.Fatal("symptom heuristic must hand off on backend failure")
	}
}
