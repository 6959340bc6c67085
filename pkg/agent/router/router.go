package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/llm"
	"discharge-assist-be/pkg/rag/prompt"
	"discharge-assist-be/pkg/store"
)

// historyWindow is how many recent turns the decision prompts see.
const historyWindow = 3

const (
	emergencyFallbackText  = "Please go to the nearest emergency room or call emergency services immediately."
	patientNotFoundText    = "I could not find a discharge report under that name. Could you check the spelling and try again?"
	directoryDownText      = "I could not reach the patient directory just now. Please try again in a moment."
	triageFollowUpQuestion = "Are you experiencing swelling or reduced urine output?"
)

// greetingTokens short-circuit the router: a bare greeting never
// reaches the generation backend.
var greetingTokens = map[string]struct{}{
	"hi":             {},
	"hello":          {},
	"hey":            {},
	"good morning":   {},
	"good afternoon": {},
	"good evening":   {},
}

// PatientDirectory is the external patient lookup collaborator.
type PatientDirectory interface {
	// FindByName matches names by case-insensitive substring and may
	// return zero, one or many records.
	FindByName(ctx context.Context, name string) ([]*store.PatientRecord, error)
	GetByID(ctx context.Context, id string) (*store.PatientRecord, error)
}

// UrgentHook runs side effects (event publish, alert mail) when a turn
// is triaged urgent. Best-effort: the router does not wait on or
// inspect its outcome beyond calling it.
type UrgentHook func(ctx context.Context, session *store.Session, userText string)

// Outcome is what one routed turn produces. Either Response is set, or
// Handoff is true and the caller must run the clinical flow with the
// same turn text and the session's patient context.
type Outcome struct {
	Response *agent.Response
	Handoff  bool
}

// Router is the receptionist/clinical dispatcher. It decides per turn
// whether to greet, look up a patient, triage urgency, hand off to the
// answer pipeline, or respond conversationally. It holds no per-session
// state and is safe for concurrent use across sessions; the caller owns
// exclusive access to each session it routes.
type Router struct {
	provider   llm.Provider
	directory  PatientDirectory
	urgentHook UrgentHook
	logger     *log.Logger
}

func NewRouter(provider llm.Provider, directory PatientDirectory, urgentHook UrgentHook, logger *log.Logger) *Router {
	return &Router{
		provider:   provider,
		directory:  directory,
		urgentHook: urgentHook,
		logger:     logger,
	}
}

// Route advances the conversation by one turn. It never returns an
// error: every failure path inside it degrades to a deterministic
// fallback response.
func (r *Router) Route(ctx context.Context, session *store.Session, userText string) Outcome {
	if greeting, ok := greetingResponse(userText); ok {
		return Outcome{Response: agent.NewSystemResponse(greeting)}
	}

	if !session.Bound() {
		return r.routeReception(ctx, session, userText)
	}
	return r.routeTriage(ctx, session, userText)
}

// greetingResponse handles the deterministic fast path for bare
// greeting tokens.
func greetingResponse(userText string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(userText))
	if _, ok := greetingTokens[normalized]; !ok {
		return "", false
	}
	return fmt.Sprintf("Hello! You said: %q. I am the post-discharge assistant. Could you share the patient's full name so I can pull up the discharge report?", userText), true
}

func (r *Router) routeReception(ctx context.Context, session *store.Session, userText string) Outcome {
	promptText := prompt.NewReceptionDecisionBuilder(userText, session.RecentTurns(historyWindow)).Build()

	backendOutput, err := r.provider.Generate(ctx, promptText, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[ROUTER] reception backend call failed, using fallback chain: %v", err)
		backendOutput = ""
	}

	decision := decideReception(backendOutput, userText)
	switch decision.Action {
	case ActionLookupPatient:
		name := decision.Name
		if name == "" {
			name = strings.TrimSpace(userText)
		}
		return r.lookupAndBind(ctx, session, name)

	case ActionHandoffClinical:
		session.PendingStep = store.StepClinical
		return Outcome{Handoff: true}

	default: // ask_name, chat, fallback
		text := decision.ResponseText
		if text == "" {
			text = genericRepeatText
		}
		return Outcome{Response: agent.NewSystemResponse(text)}
	}
}

// lookupAndBind queries the patient directory and, on the first match,
// binds the session and answers with a deterministic summary plus the
// fixed triage follow-up question.
func (r *Router) lookupAndBind(ctx context.Context, session *store.Session, name string) Outcome {
	records, err := r.directory.FindByName(ctx, name)
	if err != nil {
		r.logger.Printf("[ROUTER] patient lookup failed for %q: %v", name, err)
		return Outcome{Response: agent.NewSystemResponse(directoryDownText)}
	}
	if len(records) == 0 {
		return Outcome{Response: agent.NewSystemResponse(patientNotFoundText)}
	}

	patient := records[0]
	session.Bind(patient)
	r.logger.Printf("[ROUTER] session %s bound to patient %s", session.ID, patient.ID)

	summary := fmt.Sprintf("Found report dated %s. Diagnosis: %s. Meds: %s. %s",
		patient.DischargeDate,
		patient.PrimaryDiagnosis,
		strings.Join(patient.Medications, ", "),
		triageFollowUpQuestion)
	return Outcome{Response: agent.NewSystemResponse(summary)}
}

func (r *Router) routeTriage(ctx context.Context, session *store.Session, userText string) Outcome {
	promptText := prompt.NewTriageDecisionBuilder(userText, session.Patient, session.RecentTurns(historyWindow)).Build()

	backendOutput, err := r.provider.Generate(ctx, promptText, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[ROUTER] triage backend call failed, using fallback chain: %v", err)
		backendOutput = ""
	}

	decision := decideTriage(backendOutput, userText)
	switch decision.Type {
	case TriageUrgent:
		// Urgent short-circuits: it never hands off to the clinical
		// flow, however clinically relevant the symptoms are.
		r.logger.Printf("[URGENT] session=%s patient=%s input=%q", session.ID, session.PatientID, userText)
		if r.urgentHook != nil {
			r.urgentHook(ctx, session, userText)
		}
		text := decision.Response
		if text == "" {
			text = emergencyFallbackText
		}
		return Outcome{Response: agent.NewSystemResponse(text)}

	case TriageClinical:
		session.PendingStep = store.StepClinical
		return Outcome{Handoff: true}

	default:
		text := decision.Response
		if text == "" {
			text = genericRepeatText
		}
		return Outcome{Response: agent.NewSystemResponse(text)}
	}
}
