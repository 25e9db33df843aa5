package dbmodels

import (
	"recruit-pipeline-backend/models"
	"time"
)

type TaskInstance struct {
	BaseModel
	ApplicantID    string            `gorm:"type:varchar(36);uniqueIndex:idx_task_instance_applicant_task"`
	TaskID         string            `gorm:"type:varchar(36);uniqueIndex:idx_task_instance_applicant_task"`
	Status         models.TaskStatus `gorm:"type:varchar(50)"`
	DueDate        *time.Time
	CompletedAt    *time.Time
	Notes          string
	UpdatedBy      *string `gorm:"type:varchar(36)"`
	LastRemindedAt *time.Time
}
