package pipelineapimodels

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
)

type TransitionRuleData struct {
	FromStageID   string               `json:"from_stage_id"`
	ToStageID     string               `json:"to_stage_id"`
	ConditionType models.ConditionType `json:"condition_type"` // automatic, manual, conditional
	MinScore      *float64             `json:"min_score"`      // Минимальный балл для conditional
}

func (r TransitionRuleData) Validate() error {
	v := errs.Validation{}
	v.Check(r.FromStageID != "", "не указан исходный этап")
	v.Check(r.ToStageID != "", "не указан целевой этап")
	v.Check(r.FromStageID == "" || r.FromStageID != r.ToStageID, "исходный и целевой этапы совпадают")
	v.Check(r.ConditionType.IsValid(), "неизвестный тип условия: %v", r.ConditionType)
	if r.ConditionType == models.ConditionConditional {
		v.Check(r.MinScore != nil, "для условного перехода необходимо указать минимальный балл")
	}
	return v.Err()
}

type TransitionRuleView struct {
	ID            string               `json:"id"`
	FromStageID   string               `json:"from_stage_id"`
	ToStageID     string               `json:"to_stage_id"`
	ConditionType models.ConditionType `json:"condition_type"`
	MinScore      *float64             `json:"min_score,omitempty"`
}

func TransitionRuleConvert(rec dbmodels.StageTransitionRule) TransitionRuleView {
	return TransitionRuleView{
		ID:            rec.ID,
		FromStageID:   rec.FromStageID,
		ToStageID:     rec.ToStageID,
		ConditionType: rec.ConditionType,
		MinScore:      rec.ConditionConfig.MinScore,
	}
}

// DuplicateRules несколько правил для одной пары этапов
type DuplicateRules struct {
	FromStageID string   `json:"from_stage_id"`
	ToStageID   string   `json:"to_stage_id"`
	RuleIDs     []string `json:"rule_ids"`
}
