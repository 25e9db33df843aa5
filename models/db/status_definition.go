package dbmodels

import "recruit-pipeline-backend/models"

type StatusDefinition struct {
	BaseModel
	StageID        string                `gorm:"type:varchar(36);index"`
	StatusValue    string                `gorm:"type:varchar(50)"`
	DisplayName    string                `gorm:"type:varchar(100)"`
	StatusCategory models.StatusCategory `gorm:"type:varchar(50)"`
	ColorScheme    string                `gorm:"type:varchar(50)"`
	SortOrder      int
	IsActive       bool `gorm:"default:true"`
	IsFinal        bool
}

type StatusTemplateItem struct {
	StatusValue    string
	DisplayName    string
	StatusCategory models.StatusCategory
	ColorScheme    string
	IsFinal        bool
}

// StatusTemplates наборы статусов по умолчанию
var StatusTemplates = map[models.StatusTemplate][]StatusTemplateItem{
	models.StatusTemplateEvent: {
		{StatusValue: "planned", DisplayName: "参加予定", StatusCategory: models.StatusCategoryPending, ColorScheme: "blue"},
		{StatusValue: "attended", DisplayName: "参加済み", StatusCategory: models.StatusCategoryPassed, ColorScheme: "green"},
		{StatusValue: "cancelled", DisplayName: "キャンセル", StatusCategory: models.StatusCategoryCancelled, ColorScheme: "gray", IsFinal: true},
		{StatusValue: "no_show", DisplayName: "欠席", StatusCategory: models.StatusCategoryFailed, ColorScheme: "red", IsFinal: true},
	},
	models.StatusTemplateInterview: {
		{StatusValue: "pending", DisplayName: "結果待ち", StatusCategory: models.StatusCategoryPending, ColorScheme: "blue"},
		{StatusValue: "passed", DisplayName: "合格", StatusCategory: models.StatusCategoryPassed, ColorScheme: "green", IsFinal: true},
		{StatusValue: "failed", DisplayName: "不合格", StatusCategory: models.StatusCategoryFailed, ColorScheme: "red", IsFinal: true},
		{StatusValue: "cancelled", DisplayName: "キャンセル", StatusCategory: models.StatusCategoryCancelled, ColorScheme: "gray", IsFinal: true},
		{StatusValue: "no_show", DisplayName: "無断欠席", StatusCategory: models.StatusCategoryFailed, ColorScheme: "red", IsFinal: true},
	},
	models.StatusTemplateDocument: {
		{StatusValue: "pending", DisplayName: "選考中", StatusCategory: models.StatusCategoryPending, ColorScheme: "blue"},
		{StatusValue: "passed", DisplayName: "通過", StatusCategory: models.StatusCategoryPassed, ColorScheme: "green", IsFinal: true},
		{StatusValue: "failed", DisplayName: "不通過", StatusCategory: models.StatusCategoryFailed, ColorScheme: "red", IsFinal: true},
	},
	models.StatusTemplateFinal: {
		{StatusValue: "pending", DisplayName: "回答待ち", StatusCategory: models.StatusCategoryPending, ColorScheme: "blue"},
		{StatusValue: "accepted", DisplayName: "承諾", StatusCategory: models.StatusCategoryPassed, ColorScheme: "green", IsFinal: true},
		{StatusValue: "declined", DisplayName: "辞退", StatusCategory: models.StatusCategoryDeclined, ColorScheme: "orange", IsFinal: true},
	},
	models.StatusTemplateDefault: {
		{StatusValue: "pending", DisplayName: "保留", StatusCategory: models.StatusCategoryPending, ColorScheme: "blue"},
		{StatusValue: "passed", DisplayName: "通過", StatusCategory: models.StatusCategoryPassed, ColorScheme: "green", IsFinal: true},
		{StatusValue: "failed", DisplayName: "不通過", StatusCategory: models.StatusCategoryFailed, ColorScheme: "red", IsFinal: true},
	},
}
