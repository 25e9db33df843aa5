package pipelineapimodels

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"
)

const (
	nameMaxLen        = 100
	descriptionMaxLen = 500
	minDuration       = 1
	maxDuration       = 1440
)

type StageDefinitionData struct {
	Name                     string                `json:"name"`                       // Системное имя этапа (уникальное)
	DisplayName              string                `json:"display_name"`               // Отображаемое название
	Description              string                `json:"description"`                // Описание
	StageGroup               models.StageGroup     `json:"stage_group"`                // Группа этапов
	SortOrder                *int                  `json:"sort_order"`                 // Порядковый номер, по умолчанию в конец списка
	ColorScheme              string                `json:"color_scheme"`               // Цветовая схема
	Icon                     string                `json:"icon"`                       // Иконка
	EstimatedDurationMinutes int                   `json:"estimated_duration_minutes"` // Длительность, мин
	RequiresSession          bool                  `json:"requires_session"`           // Требуется сессия
	SessionTypes             []string              `json:"session_types"`              // Допустимые форматы сессий
	StatusTemplate           models.StatusTemplate `json:"status_template"`            // Шаблон статусов, по умолчанию определяется по этапу
	Extensions               map[string]string     `json:"extensions"`                 // Дополнительные атрибуты
}

func (s StageDefinitionData) Validate() error {
	v := errs.Validation{}
	validateStageName(&v, s.Name)
	validateDisplayName(&v, s.DisplayName)
	validateDescription(&v, s.Description)
	validateDuration(&v, s.EstimatedDurationMinutes)
	v.Check(s.StageGroup.IsValid(), "неизвестная группа этапа: %v", s.StageGroup)
	if s.StatusTemplate != "" {
		_, ok := dbmodels.StatusTemplates[s.StatusTemplate]
		v.Check(ok, "неизвестный шаблон статусов: %v", s.StatusTemplate)
	}
	v.Check(!s.RequiresSession || len(s.SessionTypes) != 0, "для этапа с сессией необходимо указать форматы сессий")
	return v.Err()
}

type StageDefinitionUpdate struct {
	Name                     *string            `json:"name"`
	DisplayName              *string            `json:"display_name"`
	Description              *string            `json:"description"`
	StageGroup               *models.StageGroup `json:"stage_group"`
	SortOrder                *int               `json:"sort_order"`
	IsActive                 *bool              `json:"is_active"`
	ColorScheme              *string            `json:"color_scheme"`
	Icon                     *string            `json:"icon"`
	EstimatedDurationMinutes *int               `json:"estimated_duration_minutes"`
	RequiresSession          *bool              `json:"requires_session"`
	SessionTypes             []string           `json:"session_types"`
	Extensions               map[string]string  `json:"extensions"`
	ConfigVersion            *int               `json:"config_version"` // Ожидаемая версия конфигурации (необязательно)
}

func (s StageDefinitionUpdate) Validate() error {
	v := errs.Validation{}
	if s.Name != nil {
		validateStageName(&v, *s.Name)
	}
	if s.DisplayName != nil {
		validateDisplayName(&v, *s.DisplayName)
	}
	if s.Description != nil {
		validateDescription(&v, *s.Description)
	}
	if s.EstimatedDurationMinutes != nil {
		validateDuration(&v, *s.EstimatedDurationMinutes)
	}
	if s.StageGroup != nil {
		v.Check(s.StageGroup.IsValid(), "неизвестная группа этапа: %v", *s.StageGroup)
	}
	if s.RequiresSession != nil && *s.RequiresSession && s.SessionTypes != nil {
		v.Check(len(s.SessionTypes) != 0, "для этапа с сессией необходимо указать форматы сессий")
	}
	return v.Err()
}

// UpdateMap поля для обновления, ключи - имена колонок
func (s StageDefinitionUpdate) UpdateMap() map[string]interface{} {
	updMap := map[string]interface{}{}
	if s.Name != nil {
		updMap["name"] = *s.Name
	}
	if s.DisplayName != nil {
		updMap["display_name"] = *s.DisplayName
	}
	if s.Description != nil {
		updMap["description"] = *s.Description
	}
	if s.StageGroup != nil {
		updMap["stage_group"] = *s.StageGroup
	}
	if s.SortOrder != nil {
		updMap["sort_order"] = *s.SortOrder
	}
	if s.IsActive != nil {
		updMap["is_active"] = *s.IsActive
	}
	if s.ColorScheme != nil {
		updMap["color_scheme"] = *s.ColorScheme
	}
	if s.Icon != nil {
		updMap["icon"] = *s.Icon
	}
	if s.EstimatedDurationMinutes != nil {
		updMap["estimated_duration_minutes"] = *s.EstimatedDurationMinutes
	}
	if s.RequiresSession != nil {
		updMap["requires_session"] = *s.RequiresSession
	}
	if s.SessionTypes != nil {
		updMap["session_types"] = pq.StringArray(s.SessionTypes)
	}
	if s.Extensions != nil {
		updMap["extensions"] = dbmodels.Extensions(s.Extensions)
	}
	return updMap
}

type StageDefinitionView struct {
	ID                       string                `json:"id"`
	Name                     string                `json:"name"`
	DisplayName              string                `json:"display_name"`
	Description              string                `json:"description"`
	StageGroup               models.StageGroup     `json:"stage_group"`
	SortOrder                int                   `json:"sort_order"`
	IsActive                 bool                  `json:"is_active"`
	ColorScheme              string                `json:"color_scheme"`
	Icon                     string                `json:"icon"`
	EstimatedDurationMinutes int                   `json:"estimated_duration_minutes"`
	RequiresSession          bool                  `json:"requires_session"`
	SessionTypes             []string              `json:"session_types"`
	ConfigVersion            int                   `json:"config_version"`
	StatusTemplate           models.StatusTemplate `json:"status_template"`
	Extensions               map[string]string     `json:"extensions,omitempty"`
	CreatedAt                time.Time             `json:"created_at"`
	UpdatedAt                time.Time             `json:"updated_at"`
}

func StageDefinitionConvert(rec dbmodels.StageDefinition) StageDefinitionView {
	return StageDefinitionView{
		ID:                       rec.ID,
		Name:                     rec.Name,
		DisplayName:              rec.DisplayName,
		Description:              rec.Description,
		StageGroup:               rec.StageGroup,
		SortOrder:                rec.SortOrder,
		IsActive:                 rec.IsActive,
		ColorScheme:              rec.ColorScheme,
		Icon:                     rec.Icon,
		EstimatedDurationMinutes: rec.EstimatedDurationMinutes,
		RequiresSession:          rec.RequiresSession,
		SessionTypes:             rec.SessionTypes,
		ConfigVersion:            rec.ConfigVersion,
		StatusTemplate:           rec.StatusTemplate,
		Extensions:               rec.Extensions,
		CreatedAt:                rec.CreatedAt,
		UpdatedAt:                rec.UpdatedAt,
	}
}

func ValidateOrder(items []OrderItem) error {
	v := errs.Validation{}
	v.Check(len(items) != 0, "не указан новый порядок")
	seen := map[string]bool{}
	for _, item := range items {
		if item.ID == "" {
			v.Add("не указан идентификатор записи")
			continue
		}
		if seen[item.ID] {
			v.Add("запись %v указана несколько раз", item.ID)
		}
		seen[item.ID] = true
	}
	return v.Err()
}

type OrderItem struct {
	ID        string `json:"id"`         // Идентификатор записи
	SortOrder int    `json:"sort_order"` // Новый порядковый номер
}

type OrderData struct {
	Items []OrderItem `json:"items"`
}

func (o OrderData) Validate() error {
	return ValidateOrder(o.Items)
}

func validateStageName(v *errs.Validation, name string) {
	if name == "" {
		v.Add("не указано имя этапа")
		return
	}
	v.Check(utf8.RuneCountInString(name) <= nameMaxLen, "имя этапа не должно превышать %v символов", nameMaxLen)
}

func validateDisplayName(v *errs.Validation, name string) {
	if name == "" {
		v.Add("не указано отображаемое название")
		return
	}
	v.Check(utf8.RuneCountInString(name) <= nameMaxLen, "отображаемое название не должно превышать %v символов", nameMaxLen)
}

func validateDescription(v *errs.Validation, description string) {
	v.Check(utf8.RuneCountInString(description) <= descriptionMaxLen, "описание не должно превышать %v символов", descriptionMaxLen)
}

func validateDuration(v *errs.Validation, minutes int) {
	v.Check(minutes >= minDuration && minutes <= maxDuration, "длительность этапа должна быть от %v до %v минут", minDuration, maxDuration)
}
