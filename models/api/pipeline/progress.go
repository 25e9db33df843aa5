package pipelineapimodels

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"
)

type StageActionData struct {
	StageID string   `json:"stage_id"` // Идентификатор этапа
	Score   *float64 `json:"score"`    // Оценка (только для завершения этапа)
	Notes   string   `json:"notes"`    // Комментарий
}

func (s StageActionData) Validate() error {
	if s.StageID == "" {
		return errs.NewValidationError("не указан этап")
	}
	return nil
}

type TransitionData struct {
	FromStageID string `json:"from_stage_id"`
	ToStageID   string `json:"to_stage_id"`
}

func (t TransitionData) Validate() error {
	v := errs.Validation{}
	v.Check(t.FromStageID != "", "не указан исходный этап")
	v.Check(t.ToStageID != "", "не указан целевой этап")
	v.Check(t.FromStageID == "" || t.FromStageID != t.ToStageID, "исходный и целевой этапы совпадают")
	return v.Err()
}

type TransitionCheck struct {
	CanTransition bool   `json:"can_transition"`
	Reason        string `json:"reason,omitempty"`
}

type TransitionResult struct {
	TransitionCheck
	Progress *StageProgressView `json:"progress,omitempty"` // Новая запись этапа, если переход выполнен
}

type StageProgressView struct {
	ID          string                `json:"id"`
	ApplicantID string                `json:"applicant_id"`
	StageID     string                `json:"stage_id"`
	StageName   string                `json:"stage_name,omitempty"`
	Status      models.ProgressStatus `json:"status"`
	StartedAt   *time.Time            `json:"started_at,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	Score       *float64              `json:"score,omitempty"`
	Notes       string                `json:"notes"`
	CreatedAt   time.Time             `json:"created_at"`
}

func StageProgressConvert(rec dbmodels.StageProgress) StageProgressView {
	view := StageProgressView{
		ID:          rec.ID,
		ApplicantID: rec.ApplicantID,
		StageID:     rec.StageID,
		Status:      rec.Status,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
		Score:       rec.Score,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Stage != nil {
		view.StageName = rec.Stage.DisplayName
	}
	return view
}
