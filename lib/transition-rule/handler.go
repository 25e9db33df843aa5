package transitionrulehandler

import (
	"fmt"
	"recruit-pipeline-backend/db"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	stageprogressstore "recruit-pipeline-backend/lib/stage-progress/store"
	transitionrulestore "recruit-pipeline-backend/lib/transition-rule/store"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	log "github.com/sirupsen/logrus"
)

const (
	ReasonPriorStageIncomplete = "предыдущий этап не завершен"
	ReasonNoRule               = "правило перехода не задано"
	ReasonManualApproval       = "требуется ручное подтверждение перехода"
	ReasonMinScoreNotMet       = "не набран минимальный балл (требуется %v)"
	ReasonUnknownCondition     = "неизвестный тип условия перехода"
)

type Provider interface {
	CheckTransitionConditions(applicantID, fromStageID, toStageID string) (pipelineapimodels.TransitionCheck, error)
	Create(data pipelineapimodels.TransitionRuleData) (pipelineapimodels.TransitionRuleView, error)
	List() ([]pipelineapimodels.TransitionRuleView, error)
	Delete(id string) error
	// IntegrityCheck пары этапов, для которых задано больше одного правила
	IntegrityCheck() ([]pipelineapimodels.DuplicateRules, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		transitionrulestore.NewInstance(db.DB),
		stageprogressstore.NewInstance(db.DB),
		stagedefinitionstore.NewInstance(db.DB),
	)
}

func NewInstance(store transitionrulestore.Provider, progressStore stageprogressstore.Provider, stageStore stagedefinitionstore.Provider) Provider {
	return impl{
		store:         store,
		progressStore: progressStore,
		stageStore:    stageStore,
	}
}

type impl struct {
	store         transitionrulestore.Provider
	progressStore stageprogressstore.Provider
	stageStore    stagedefinitionstore.Provider
}

func (i impl) CheckTransitionConditions(applicantID, fromStageID, toStageID string) (pipelineapimodels.TransitionCheck, error) {
	logger := i.getLogger(applicantID, fromStageID, toStageID)
	progress, err := i.progressStore.Latest(applicantID, fromStageID)
	if err != nil {
		return pipelineapimodels.TransitionCheck{}, errs.Dependency(err, "ошибка получения прохождения этапа")
	}
	if progress == nil || progress.Status != models.ProgressStatusCompleted {
		return denied(ReasonPriorStageIncomplete), nil
	}

	ruleList, err := i.store.ListByPair(fromStageID, toStageID)
	if err != nil {
		return pipelineapimodels.TransitionCheck{}, errs.Dependency(err, "ошибка получения правил перехода")
	}
	if len(ruleList) == 0 {
		return denied(ReasonNoRule), nil
	}
	if len(ruleList) > 1 {
		logger.
			WithField("rule_count", len(ruleList)).
			WithField("rule_id", ruleList[0].ID).
			Warn("для пары этапов задано несколько правил перехода, используется первое")
	}
	return evaluate(ruleList[0], progress.Score)
}

func (i impl) Create(data pipelineapimodels.TransitionRuleData) (pipelineapimodels.TransitionRuleView, error) {
	if err := data.Validate(); err != nil {
		return pipelineapimodels.TransitionRuleView{}, err
	}
	for _, stageID := range []string{data.FromStageID, data.ToStageID} {
		stage, err := i.stageStore.GetByID(stageID)
		if err != nil {
			return pipelineapimodels.TransitionRuleView{}, errs.Dependency(err, "ошибка получения этапа")
		}
		if stage == nil {
			return pipelineapimodels.TransitionRuleView{}, errs.NewNotFound("этап", stageID)
		}
	}
	existing, err := i.store.ListByPair(data.FromStageID, data.ToStageID)
	if err != nil {
		return pipelineapimodels.TransitionRuleView{}, errs.Dependency(err, "ошибка получения правил перехода")
	}
	if len(existing) != 0 {
		return pipelineapimodels.TransitionRuleView{}, errs.NewConflict("правило перехода для этих этапов уже задано (id=%v)", existing[0].ID)
	}
	rec, err := i.store.Create(dbmodels.StageTransitionRule{
		FromStageID:   data.FromStageID,
		ToStageID:     data.ToStageID,
		ConditionType: data.ConditionType,
		ConditionConfig: dbmodels.ConditionConfig{
			MinScore: data.MinScore,
		},
	})
	if err != nil {
		return pipelineapimodels.TransitionRuleView{}, errs.Dependency(err, "ошибка создания правила перехода")
	}
	i.getLogger("", data.FromStageID, data.ToStageID).
		WithField("rule_id", rec.ID).
		WithField("condition_type", rec.ConditionType).
		Info("создано правило перехода")
	return pipelineapimodels.TransitionRuleConvert(*rec), nil
}

func (i impl) List() ([]pipelineapimodels.TransitionRuleView, error) {
	list, err := i.store.List()
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения правил перехода")
	}
	result := make([]pipelineapimodels.TransitionRuleView, 0, len(list))
	for _, rec := range list {
		result = append(result, pipelineapimodels.TransitionRuleConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(id string) error {
	deleted, err := i.store.Delete(id)
	if err != nil {
		return errs.Dependency(err, "ошибка удаления правила перехода")
	}
	if !deleted {
		return errs.NewNotFound("правило перехода", id)
	}
	log.WithField("rule_id", id).Info("правило перехода удалено")
	return nil
}

func (i impl) IntegrityCheck() ([]pipelineapimodels.DuplicateRules, error) {
	list, err := i.store.List()
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения правил перехода")
	}
	type pair struct{ from, to string }
	pairOrder := []pair{}
	pairRules := map[pair][]string{}
	for _, rec := range list {
		key := pair{from: rec.FromStageID, to: rec.ToStageID}
		if _, ok := pairRules[key]; !ok {
			pairOrder = append(pairOrder, key)
		}
		pairRules[key] = append(pairRules[key], rec.ID)
	}
	result := []pipelineapimodels.DuplicateRules{}
	for _, key := range pairOrder {
		if len(pairRules[key]) < 2 {
			continue
		}
		result = append(result, pipelineapimodels.DuplicateRules{
			FromStageID: key.from,
			ToStageID:   key.to,
			RuleIDs:     pairRules[key],
		})
	}
	return result, nil
}

func (i impl) getLogger(applicantID, fromStageID, toStageID string) *log.Entry {
	logger := log.
		WithField("component", "transition_rule").
		WithField("from_stage_id", fromStageID).
		WithField("to_stage_id", toStageID)
	if applicantID != "" {
		logger = logger.WithField("applicant_id", applicantID)
	}
	return logger
}

func evaluate(rule dbmodels.StageTransitionRule, score *float64) (pipelineapimodels.TransitionCheck, error) {
	switch rule.ConditionType {
	case models.ConditionAutomatic:
		return allowed(), nil
	case models.ConditionManual:
		return denied(ReasonManualApproval), nil
	case models.ConditionConditional:
		minScore := rule.ConditionConfig.MinScore
		if minScore == nil {
			return pipelineapimodels.TransitionCheck{}, &errs.RuleEvaluationError{
				RuleID:  rule.ID,
				Message: "в условии не указан минимальный балл",
			}
		}
		if score != nil && *score < *minScore {
			return denied(fmt.Sprintf(ReasonMinScoreNotMet, *minScore)), nil
		}
		return allowed(), nil
	}
	return denied(ReasonUnknownCondition), nil
}

func allowed() pipelineapimodels.TransitionCheck {
	return pipelineapimodels.TransitionCheck{CanTransition: true}
}

func denied(reason string) pipelineapimodels.TransitionCheck {
	return pipelineapimodels.TransitionCheck{CanTransition: false, Reason: reason}
}
