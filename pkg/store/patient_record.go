package store

// PatientRecord is the discharge-report snapshot a session binds to.
// It is loaded once from the patient directory and never mutated; the
// conversation layer only reads from it.
type PatientRecord struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	DischargeDate         string   `json:"discharge_date"`
	PrimaryDiagnosis      string   `json:"primary_diagnosis"`
	Medications           []string `json:"medications"`
	FollowUp              string   `json:"follow_up"`
	WarningSigns          []string `json:"warning_signs"`
	DischargeInstructions string   `json:"discharge_instructions"`
	Notes                 string   `json:"notes"`
}
