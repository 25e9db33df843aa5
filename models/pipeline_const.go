package models

type StageGroup string

const (
	StageGroupEntry      StageGroup = "entry"      // Запись / регистрация
	StageGroupInternship StageGroup = "internship" // Стажировка, мероприятия
	StageGroupSelection  StageGroup = "selection"  // Отбор
	StageGroupOther      StageGroup = "other"
)

func (g StageGroup) IsValid() bool {
	switch g {
	case StageGroupEntry, StageGroupInternship, StageGroupSelection, StageGroupOther:
		return true
	}
	return false
}

type StatusCategory string

const (
	StatusCategoryPassed    StatusCategory = "passed"
	StatusCategoryFailed    StatusCategory = "failed"
	StatusCategoryPending   StatusCategory = "pending"
	StatusCategoryDeclined  StatusCategory = "declined"
	StatusCategoryCancelled StatusCategory = "cancelled"
)

func (c StatusCategory) IsValid() bool {
	switch c {
	case StatusCategoryPassed, StatusCategoryFailed, StatusCategoryPending,
		StatusCategoryDeclined, StatusCategoryCancelled:
		return true
	}
	return false
}

type TaskType string

const (
	TaskTypeEmail              TaskType = "email"
	TaskTypeDocument           TaskType = "document"
	TaskTypeGeneral            TaskType = "general"
	TaskTypeInterview          TaskType = "interview"
	TaskTypeEvaluation         TaskType = "evaluation"
	TaskTypeSchedulingContact  TaskType = "scheduling_contact"  // Связаться для согласования даты
	TaskTypeReminder           TaskType = "reminder"            // Напоминание кандидату
	TaskTypeDocumentSubmission TaskType = "document_submission" // Кандидат предоставляет документы
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeEmail, TaskTypeDocument, TaskTypeGeneral, TaskTypeInterview, TaskTypeEvaluation,
		TaskTypeSchedulingContact, TaskTypeReminder, TaskTypeDocumentSubmission:
		return true
	}
	return false
}

// InitialStatus статус задачи, пока по ней не было ни одного изменения
func (t TaskType) InitialStatus() TaskStatus {
	switch t {
	case TaskTypeSchedulingContact, TaskTypeReminder:
		return TaskStatusAwaitingReply
	case TaskTypeDocumentSubmission:
		return TaskStatusAwaitingSubmission
	}
	return TaskStatusNotStarted
}

// AwaitsApplicant задача ждет действия от кандидата
func (t TaskType) AwaitsApplicant() bool {
	return t == TaskTypeSchedulingContact || t == TaskTypeReminder
}

// TaskStatus открытый словарь, этапы могут использовать свои значения
type TaskStatus string

const (
	TaskStatusNotStarted         TaskStatus = "not_started"
	TaskStatusInProgress         TaskStatus = "in_progress"
	TaskStatusDone               TaskStatus = "done"
	TaskStatusAwaitingReply      TaskStatus = "awaiting_reply"
	TaskStatusAwaitingSubmission TaskStatus = "awaiting_submission"
	TaskStatusSubmitted          TaskStatus = "submitted"
)

func (s TaskStatus) IsAwaiting() bool {
	return s == TaskStatusAwaitingReply || s == TaskStatusAwaitingSubmission
}

type ProgressStatus string

const (
	ProgressStatusPending    ProgressStatus = "pending"
	ProgressStatusInProgress ProgressStatus = "in_progress"
	ProgressStatusCompleted  ProgressStatus = "completed"
	ProgressStatusFailed     ProgressStatus = "failed"
	ProgressStatusSkipped    ProgressStatus = "skipped"
)

func (s ProgressStatus) IsTerminal() bool {
	return s == ProgressStatusCompleted || s == ProgressStatusFailed || s == ProgressStatusSkipped
}

func (s ProgressStatus) IsCurrent() bool {
	return s == ProgressStatusPending || s == ProgressStatusInProgress
}

type ConditionType string

const (
	ConditionAutomatic   ConditionType = "automatic"
	ConditionManual      ConditionType = "manual"
	ConditionConditional ConditionType = "conditional"
)

func (c ConditionType) IsValid() bool {
	return c == ConditionAutomatic || c == ConditionManual || c == ConditionConditional
}

type StatusTemplate string

const (
	StatusTemplateEvent     StatusTemplate = "event"     // посещение мероприятия
	StatusTemplateInterview StatusTemplate = "interview" // собеседование
	StatusTemplateDocument  StatusTemplate = "document"  // рассмотрение документов
	StatusTemplateFinal     StatusTemplate = "final"     // оффер
	StatusTemplateDefault   StatusTemplate = "default"
)
