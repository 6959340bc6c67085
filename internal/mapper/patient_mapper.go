package mapper

import (
	"encoding/json"
	"time"

	"discharge-assist-be/internal/entity"
	"discharge-assist-be/internal/model"

	"gorm.io/datatypes"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(p *model.Patient) *entity.Patient {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Patient{
		Id:                    p.Id,
		Name:                  p.Name,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           decodeStringList(p.Medications),
		FollowUp:              p.FollowUp,
		WarningSigns:          decodeStringList(p.WarningSigns),
		DischargeInstructions: p.DischargeInstructions,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *PatientMapper) ToModel(p *entity.Patient) *model.Patient {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Patient{
		Id:                    p.Id,
		Name:                  p.Name,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           encodeStringList(p.Medications),
		FollowUp:              p.FollowUp,
		WarningSigns:          encodeStringList(p.WarningSigns),
		DischargeInstructions: p.DischargeInstructions,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *PatientMapper) ToEntities(patients []*model.Patient) []*entity.Patient {
	entities := make([]*entity.Patient, len(patients))
	for i, p := range patients {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func encodeStringList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
