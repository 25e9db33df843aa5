package dbmodels

import (
	"recruit-pipeline-backend/models"

	"github.com/lib/pq"
)

type StageDefinition struct {
	BaseModel
	Name                     string            `gorm:"type:varchar(100);index:idx_stage_definition_name_active,unique,where:is_active = true"`
	DisplayName              string            `gorm:"type:varchar(100)"`
	Description              string            `gorm:"type:varchar(500)"`
	StageGroup               models.StageGroup `gorm:"type:varchar(50)"`
	SortOrder                int               `gorm:"index"`
	IsActive                 bool              `gorm:"default:true"`
	ColorScheme              string            `gorm:"type:varchar(50)"`
	Icon                     string            `gorm:"type:varchar(100)"`
	EstimatedDurationMinutes int
	RequiresSession          bool
	SessionTypes             pq.StringArray        `gorm:"type:text[]"`
	ConfigVersion            int                   `gorm:"default:1"`
	StatusTemplate           models.StatusTemplate `gorm:"type:varchar(50)"`
	Extensions               Extensions            `gorm:"type:jsonb"`
}

// известные этапы подбора
const (
	CompanyBriefingStage string = "会社説明会"
	AptitudeTrialStage   string = "適性検査体験"
	WorkplaceVisitStage  string = "職場見学"
	JobExperienceStage   string = "仕事体験"
	CEOSeminarStage      string = "CEOセミナー"
	DocumentScreenStage  string = "書類選考"
	FirstInterviewStage  string = "一次面接"
	SecondInterviewStage string = "二次面接"
	FinalInterviewStage  string = "最終面接"
	OfferStage           string = "内定"
)

// StageNameTemplates шаблон статусов назначается этапу при создании по точному совпадению имени
var StageNameTemplates = map[string]models.StatusTemplate{
	CompanyBriefingStage: models.StatusTemplateEvent,
	AptitudeTrialStage:   models.StatusTemplateEvent,
	WorkplaceVisitStage:  models.StatusTemplateEvent,
	JobExperienceStage:   models.StatusTemplateEvent,
	CEOSeminarStage:      models.StatusTemplateEvent,
	DocumentScreenStage:  models.StatusTemplateDocument,
	FirstInterviewStage:  models.StatusTemplateInterview,
	SecondInterviewStage: models.StatusTemplateInterview,
	FinalInterviewStage:  models.StatusTemplateInterview,
	OfferStage:           models.StatusTemplateFinal,
}

var StageGroupTemplates = map[models.StageGroup]models.StatusTemplate{
	models.StageGroupEntry:      models.StatusTemplateDefault,
	models.StageGroupInternship: models.StatusTemplateEvent,
	models.StageGroupSelection:  models.StatusTemplateInterview,
	models.StageGroupOther:      models.StatusTemplateDefault,
}

func ResolveStatusTemplate(name string, group models.StageGroup) models.StatusTemplate {
	if tpl, ok := StageNameTemplates[name]; ok {
		return tpl
	}
	if tpl, ok := StageGroupTemplates[group]; ok {
		return tpl
	}
	return models.StatusTemplateDefault
}
