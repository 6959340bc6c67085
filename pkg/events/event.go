package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TRIAGE_URGENT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent provides a plain implementation for ad-hoc events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// UrgentTriage is emitted when the router classifies a turn as an
// emergency. Downstream consumers (care-team alerting) subscribe to it.
type UrgentTriage struct {
	SessionID  string
	PatientID  string
	UserInput  string
	OccurredAt time.Time
}

func (e UrgentTriage) EventType() string {
	return "TRIAGE_URGENT"
}

func (e UrgentTriage) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"patient_id": e.PatientID,
		"user_input": e.UserInput,
	}
}

func (e UrgentTriage) Timestamp() time.Time {
	return e.OccurredAt
}
