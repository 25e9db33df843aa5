package pipelineapimodels

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
	"unicode/utf8"
)

const statusValueMaxLen = 50

type StatusDefinitionData struct {
	StatusValue    string                `json:"status_value"`    // Значение статуса (уникально в рамках этапа)
	DisplayName    string                `json:"display_name"`    // Отображаемое название
	StatusCategory models.StatusCategory `json:"status_category"` // Категория статуса
	ColorScheme    string                `json:"color_scheme"`    // Цветовая схема
	SortOrder      *int                  `json:"sort_order"`      // Порядковый номер, по умолчанию в конец списка
	IsFinal        bool                  `json:"is_final"`        // Итоговый статус
}

func (s StatusDefinitionData) Validate() error {
	v := errs.Validation{}
	validateStatusValue(&v, s.StatusValue)
	validateDisplayName(&v, s.DisplayName)
	v.Check(s.StatusCategory.IsValid(), "неизвестная категория статуса: %v", s.StatusCategory)
	return v.Err()
}

type StatusDefinitionUpdate struct {
	StatusValue    *string                `json:"status_value"`
	DisplayName    *string                `json:"display_name"`
	StatusCategory *models.StatusCategory `json:"status_category"`
	ColorScheme    *string                `json:"color_scheme"`
	SortOrder      *int                   `json:"sort_order"`
	IsActive       *bool                  `json:"is_active"`
	IsFinal        *bool                  `json:"is_final"`
}

func (s StatusDefinitionUpdate) Validate() error {
	v := errs.Validation{}
	if s.StatusValue != nil {
		validateStatusValue(&v, *s.StatusValue)
	}
	if s.DisplayName != nil {
		validateDisplayName(&v, *s.DisplayName)
	}
	if s.StatusCategory != nil {
		v.Check(s.StatusCategory.IsValid(), "неизвестная категория статуса: %v", *s.StatusCategory)
	}
	return v.Err()
}

func (s StatusDefinitionUpdate) UpdateMap() map[string]interface{} {
	updMap := map[string]interface{}{}
	if s.StatusValue != nil {
		updMap["status_value"] = *s.StatusValue
	}
	if s.DisplayName != nil {
		updMap["display_name"] = *s.DisplayName
	}
	if s.StatusCategory != nil {
		updMap["status_category"] = *s.StatusCategory
	}
	if s.ColorScheme != nil {
		updMap["color_scheme"] = *s.ColorScheme
	}
	if s.SortOrder != nil {
		updMap["sort_order"] = *s.SortOrder
	}
	if s.IsActive != nil {
		updMap["is_active"] = *s.IsActive
	}
	if s.IsFinal != nil {
		updMap["is_final"] = *s.IsFinal
	}
	return updMap
}

type StatusTemplateData struct {
	TemplateKey models.StatusTemplate `json:"template_key"` // Ключ шаблона (event, interview, document, final, default)
}

func (s StatusTemplateData) Validate() error {
	if _, ok := dbmodels.StatusTemplates[s.TemplateKey]; !ok {
		return errs.NewValidationError("неизвестный шаблон статусов: " + string(s.TemplateKey))
	}
	return nil
}

type StatusDefinitionView struct {
	ID             string                `json:"id"`       // Пустой для статусов по умолчанию
	StageID        string                `json:"stage_id"` // Идентификатор этапа
	StatusValue    string                `json:"status_value"`
	DisplayName    string                `json:"display_name"`
	StatusCategory models.StatusCategory `json:"status_category"`
	ColorScheme    string                `json:"color_scheme"`
	SortOrder      int                   `json:"sort_order"`
	IsActive       bool                  `json:"is_active"`
	IsFinal        bool                  `json:"is_final"`
	IsDefault      bool                  `json:"is_default"` // Статус из шаблона, не сохранен
}

func StatusDefinitionConvert(rec dbmodels.StatusDefinition) StatusDefinitionView {
	return StatusDefinitionView{
		ID:             rec.ID,
		StageID:        rec.StageID,
		StatusValue:    rec.StatusValue,
		DisplayName:    rec.DisplayName,
		StatusCategory: rec.StatusCategory,
		ColorScheme:    rec.ColorScheme,
		SortOrder:      rec.SortOrder,
		IsActive:       rec.IsActive,
		IsFinal:        rec.IsFinal,
		IsDefault:      rec.ID == "",
	}
}

func validateStatusValue(v *errs.Validation, value string) {
	if value == "" {
		v.Add("не указано значение статуса")
		return
	}
	v.Check(utf8.RuneCountInString(value) <= statusValueMaxLen, "значение статуса не должно превышать %v символов", statusValueMaxLen)
}
