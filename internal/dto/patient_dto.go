package dto

import (
	"github.com/google/uuid"
)

type PatientResponse struct {
	Id                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	DischargeDate         string    `json:"discharge_date"`
	PrimaryDiagnosis      string    `json:"primary_diagnosis"`
	Medications           []string  `json:"medications"`
	FollowUp              string    `json:"follow_up"`
	WarningSigns          []string  `json:"warning_signs"`
	DischargeInstructions string    `json:"discharge_instructions"`
	Notes                 string    `json:"notes"`
}

type FindPatientsResponse struct {
	Patients []PatientResponse `json:"patients"`
}

type CreatePatientRequest struct {
	Name                  string   `json:"name" validate:"required"`
	DischargeDate         string   `json:"discharge_date" validate:"required"`
	PrimaryDiagnosis      string   `json:"primary_diagnosis" validate:"required"`
	Medications           []string `json:"medications"`
	FollowUp              string   `json:"follow_up"`
	WarningSigns          []string `json:"warning_signs"`
	DischargeInstructions string   `json:"discharge_instructions"`
	Notes                 string   `json:"notes"`
}

type CreatePatientResponse struct {
	Id uuid.UUID `json:"id"`
}
