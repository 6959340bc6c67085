package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Patient struct {
	Id                    uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                  string         `gorm:"type:varchar(255);not null;index"`
	DischargeDate         string         `gorm:"type:varchar(32)"`
	PrimaryDiagnosis      string         `gorm:"type:varchar(255)"`
	Medications           datatypes.JSON `gorm:"type:jsonb"`
	FollowUp              string         `gorm:"type:varchar(255)"`
	WarningSigns          datatypes.JSON `gorm:"type:jsonb"`
	DischargeInstructions string         `gorm:"type:text"`
	Notes                 string         `gorm:"type:text"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}
