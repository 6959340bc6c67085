package store

import "github.com/google/uuid"

// Turn is a single utterance in a conversation. Turns are append-only;
// their insertion order is the conversational order.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

// Session represents the active conversation state in memory.
// Sessions live for the process lifetime only; nothing here is persisted.
type Session struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"` // Bound patient ("" if unbound)

	// Patient is the snapshot loaded when the session bound. nil while
	// unbound.
	Patient *PatientRecord `json:"patient,omitempty"`

	// Ordered conversation history. The router feeds the most recent
	// turns into its decision prompts.
	Turns []Turn `json:"turns"`

	// PendingStep marks a hand-off the caller still has to execute.
	// "" means the last turn was fully answered.
	PendingStep string `json:"pending_step"` // "" | StepClinical
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	StepClinical = "clinical"
)

// NewSession creates an empty unbound session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Append records a turn at the end of the history.
func (s *Session) Append(role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text})
}

// RecentTurns returns up to the last n turns in conversational order.
func (s *Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// Bind attaches a patient snapshot to the session.
func (s *Session) Bind(p *PatientRecord) {
	s.Patient = p
	s.PatientID = p.ID
}

// Bound reports whether a patient record is attached to this session.
func (s *Session) Bound() bool {
	return s.PatientID != ""
}
