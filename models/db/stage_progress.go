package dbmodels

import (
	"recruit-pipeline-backend/models"
	"time"
)

type StageProgress struct {
	BaseModel
	ApplicantID string                `gorm:"type:varchar(36);index"`
	StageID     string                `gorm:"type:varchar(36);index"`
	Stage       *StageDefinition      `gorm:"foreignKey:StageID"`
	Status      models.ProgressStatus `gorm:"type:varchar(50)"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	Score       *float64
	Notes       string
	ActorID     *string `gorm:"type:varchar(36)"`
}

// ApplicantStageCursor указатель на текущую запись прохождения этапа кандидатом
type ApplicantStageCursor struct {
	ApplicantID       string `gorm:"type:varchar(36);primaryKey"`
	CurrentProgressID string `gorm:"type:varchar(36)"`
	UpdatedAt         time.Time
}
