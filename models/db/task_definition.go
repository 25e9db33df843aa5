package dbmodels

import "recruit-pipeline-backend/models"

type TaskDefinition struct {
	BaseModel
	StageID         string          `gorm:"type:varchar(36);index"`
	Name            string          `gorm:"type:varchar(100)"`
	DisplayName     string          `gorm:"type:varchar(100)"`
	Description     string          `gorm:"type:varchar(500)"`
	TaskType        models.TaskType `gorm:"type:varchar(50)"`
	SortOrder       int
	IsRequired      bool
	IsActive        bool `gorm:"default:true"`
	DueOffsetDays   int
	EmailTemplateID *string `gorm:"type:varchar(36)"`
}
