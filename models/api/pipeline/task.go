package pipelineapimodels

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"
	"unicode/utf8"
)

const maxDueOffsetDays = 365

type TaskDefinitionData struct {
	Name            string          `json:"name"`              // Системное имя задачи (уникально в рамках этапа)
	DisplayName     string          `json:"display_name"`      // Отображаемое название
	Description     string          `json:"description"`       // Описание
	TaskType        models.TaskType `json:"task_type"`         // Тип задачи
	SortOrder       *int            `json:"sort_order"`        // Порядковый номер, по умолчанию в конец списка
	IsRequired      bool            `json:"is_required"`       // Обязательная задача
	DueOffsetDays   int             `json:"due_offset_days"`   // Срок, дней от начала этапа
	EmailTemplateID *string         `json:"email_template_id"` // Шаблон письма
}

func (t TaskDefinitionData) Validate() error {
	v := errs.Validation{}
	validateTaskName(&v, t.Name)
	validateDisplayName(&v, t.DisplayName)
	validateDescription(&v, t.Description)
	validateDueOffset(&v, t.DueOffsetDays)
	v.Check(t.TaskType.IsValid(), "неизвестный тип задачи: %v", t.TaskType)
	return v.Err()
}

type TaskDefinitionUpdate struct {
	Name            *string          `json:"name"`
	DisplayName     *string          `json:"display_name"`
	Description     *string          `json:"description"`
	TaskType        *models.TaskType `json:"task_type"`
	SortOrder       *int             `json:"sort_order"`
	IsRequired      *bool            `json:"is_required"`
	IsActive        *bool            `json:"is_active"`
	DueOffsetDays   *int             `json:"due_offset_days"`
	EmailTemplateID *string          `json:"email_template_id"`
}

func (t TaskDefinitionUpdate) Validate() error {
	v := errs.Validation{}
	if t.Name != nil {
		validateTaskName(&v, *t.Name)
	}
	if t.DisplayName != nil {
		validateDisplayName(&v, *t.DisplayName)
	}
	if t.Description != nil {
		validateDescription(&v, *t.Description)
	}
	if t.DueOffsetDays != nil {
		validateDueOffset(&v, *t.DueOffsetDays)
	}
	if t.TaskType != nil {
		v.Check(t.TaskType.IsValid(), "неизвестный тип задачи: %v", *t.TaskType)
	}
	return v.Err()
}

func (t TaskDefinitionUpdate) UpdateMap() map[string]interface{} {
	updMap := map[string]interface{}{}
	if t.Name != nil {
		updMap["name"] = *t.Name
	}
	if t.DisplayName != nil {
		updMap["display_name"] = *t.DisplayName
	}
	if t.Description != nil {
		updMap["description"] = *t.Description
	}
	if t.TaskType != nil {
		updMap["task_type"] = *t.TaskType
	}
	if t.SortOrder != nil {
		updMap["sort_order"] = *t.SortOrder
	}
	if t.IsRequired != nil {
		updMap["is_required"] = *t.IsRequired
	}
	if t.IsActive != nil {
		updMap["is_active"] = *t.IsActive
	}
	if t.DueOffsetDays != nil {
		updMap["due_offset_days"] = *t.DueOffsetDays
	}
	if t.EmailTemplateID != nil {
		updMap["email_template_id"] = *t.EmailTemplateID
	}
	return updMap
}

type TaskDuplicateData struct {
	NewName string `json:"new_name"` // Имя копии, по умолчанию <имя>_copy
}

func (t TaskDuplicateData) Validate() error {
	if t.NewName == "" {
		return nil
	}
	v := errs.Validation{}
	validateTaskName(&v, t.NewName)
	return v.Err()
}

type TaskDefinitionView struct {
	ID              string          `json:"id"`
	StageID         string          `json:"stage_id"`
	Name            string          `json:"name"`
	DisplayName     string          `json:"display_name"`
	Description     string          `json:"description"`
	TaskType        models.TaskType `json:"task_type"`
	SortOrder       int             `json:"sort_order"`
	IsRequired      bool            `json:"is_required"`
	IsActive        bool            `json:"is_active"`
	DueOffsetDays   int             `json:"due_offset_days"`
	EmailTemplateID *string         `json:"email_template_id,omitempty"`
}

func TaskDefinitionConvert(rec dbmodels.TaskDefinition) TaskDefinitionView {
	return TaskDefinitionView{
		ID:              rec.ID,
		StageID:         rec.StageID,
		Name:            rec.Name,
		DisplayName:     rec.DisplayName,
		Description:     rec.Description,
		TaskType:        rec.TaskType,
		SortOrder:       rec.SortOrder,
		IsRequired:      rec.IsRequired,
		IsActive:        rec.IsActive,
		DueOffsetDays:   rec.DueOffsetDays,
		EmailTemplateID: rec.EmailTemplateID,
	}
}

// ApplicantTaskView задача этапа вместе с состоянием по кандидату
type ApplicantTaskView struct {
	TaskDefinitionView
	InstanceID  string            `json:"instance_id"` // Для несохраненной задачи начинается с virtual:
	IsVirtual   bool              `json:"is_virtual"`  // Задача еще не сохранялась
	ApplicantID string            `json:"applicant_id"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Notes       string            `json:"notes"`
}

type TaskInstanceUpdate struct {
	Status       *models.TaskStatus `json:"status"`
	Notes        *string            `json:"notes"`
	DueDate      *time.Time         `json:"due_date"`
	ClearDueDate bool               `json:"clear_due_date"`
}

func (t TaskInstanceUpdate) Validate() error {
	v := errs.Validation{}
	v.Check(t.Status != nil || t.Notes != nil || t.DueDate != nil || t.ClearDueDate, "нет данных для изменения задачи")
	if t.Status != nil {
		v.Check(*t.Status != "", "не указан статус задачи")
		v.Check(utf8.RuneCountInString(string(*t.Status)) <= statusValueMaxLen, "статус задачи не должен превышать %v символов", statusValueMaxLen)
	}
	v.Check(!(t.DueDate != nil && t.ClearDueDate), "нельзя одновременно указать и очистить срок задачи")
	return v.Err()
}

type TaskEmailData struct {
	Subject string `json:"subject"` // Тема письма
	Body    string `json:"body"`    // Текст письма
}

func (t TaskEmailData) Validate() error {
	v := errs.Validation{}
	v.Check(t.Subject != "", "не указана тема письма")
	v.Check(t.Body != "", "не указан текст письма")
	return v.Err()
}

type TaskEmailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
}

type DocumentView struct {
	ID          string    `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	TaskID      string    `json:"task_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func DocumentConvert(rec dbmodels.ApplicantDocument) DocumentView {
	return DocumentView{
		ID:          rec.ID,
		ApplicantID: rec.ApplicantID,
		TaskID:      rec.TaskID,
		Name:        rec.Name,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		UploadedBy:  rec.UploadedBy,
		CreatedAt:   rec.CreatedAt,
	}
}

func validateTaskName(v *errs.Validation, name string) {
	if name == "" {
		v.Add("не указано имя задачи")
		return
	}
	v.Check(utf8.RuneCountInString(name) <= nameMaxLen, "имя задачи не должно превышать %v символов", nameMaxLen)
}

func validateDueOffset(v *errs.Validation, days int) {
	v.Check(days >= 0 && days <= maxDueOffsetDays, "срок задачи должен быть от 0 до %v дней", maxDueOffsetDays)
}

// DocumentFile содержимое загружаемого документа
type DocumentFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (d DocumentFile) Validate() error {
	v := errs.Validation{}
	v.Check(d.Name != "", "не указано имя файла")
	v.Check(len(d.Data) > 0, "файл пустой")
	return v.Err()
}
