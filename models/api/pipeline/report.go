package pipelineapimodels

import (
	"recruit-pipeline-backend/models"
	"time"
)

// PipelineReportRow строка отчета по этапам подбора
type PipelineReportRow struct {
	ApplicantFIO string
	Email        string
	Phone        string
	StageName    string
	Status       models.ProgressStatus
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Score        *float64
	Notes        string
}

// ProgressSheetData данные для листа прохождения этапов кандидатом
type ProgressSheetData struct {
	ApplicantFIO string
	Email        string
	Phone        string
	CreatedAt    time.Time
	History      []StageProgressView
}
