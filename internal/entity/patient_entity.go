package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is an immutable discharge-report snapshot. The record is owned
// by the patient directory; sessions only reference it by id.
type Patient struct {
	Id                    uuid.UUID
	Name                  string
	DischargeDate         string
	PrimaryDiagnosis      string
	Medications           []string
	FollowUp              string
	WarningSigns          []string
	DischargeInstructions string
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}
