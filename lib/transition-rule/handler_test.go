package transitionrulehandler

import (
	"fmt"
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	applicantID      = "00000000-0000-0000-0000-0000000000a1"
	documentStageID  = "00000000-0000-0000-0000-000000000001"
	interviewStageID = "00000000-0000-0000-0000-000000000002"
	offerStageID     = "00000000-0000-0000-0000-000000000003"
	unknownStageID   = "00000000-0000-0000-0000-000000000099"
)

type ruleStoreMock struct {
	list []dbmodels.StageTransitionRule
}

func (m *ruleStoreMock) Create(rec dbmodels.StageTransitionRule) (*dbmodels.StageTransitionRule, error) {
	rec.ID = fmt.Sprintf("60000000-0000-0000-0000-%012d", len(m.list)+1)
	m.list = append(m.list, rec)
	return &rec, nil
}

func (m *ruleStoreMock) List() ([]dbmodels.StageTransitionRule, error) {
	return m.list, nil
}

func (m *ruleStoreMock) ListByPair(fromStageID, toStageID string) ([]dbmodels.StageTransitionRule, error) {
	result := []dbmodels.StageTransitionRule{}
	for _, rec := range m.list {
		if rec.FromStageID == fromStageID && rec.ToStageID == toStageID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *ruleStoreMock) Delete(id string) (bool, error) {
	for k, rec := range m.list {
		if rec.ID == id {
			m.list = append(m.list[:k], m.list[k+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type progressStoreMock struct {
	list []dbmodels.StageProgress
}

func (m *progressStoreMock) Create(rec dbmodels.StageProgress) (*dbmodels.StageProgress, error) {
	m.list = append(m.list, rec)
	return &rec, nil
}

func (m *progressStoreMock) GetByID(id string) (*dbmodels.StageProgress, error) {
	return nil, nil
}

func (m *progressStoreMock) Latest(applicantID, stageID string) (*dbmodels.StageProgress, error) {
	var result *dbmodels.StageProgress
	for k := range m.list {
		if m.list[k].ApplicantID == applicantID && m.list[k].StageID == stageID {
			rec := m.list[k]
			result = &rec
		}
	}
	return result, nil
}

func (m *progressStoreMock) ListByApplicant(applicantID string) ([]dbmodels.StageProgress, error) {
	return nil, nil
}

func (m *progressStoreMock) ListByStage(stageID string) ([]dbmodels.StageProgress, error) {
	return nil, nil
}

func (m *progressStoreMock) Update(id string, updMap map[string]interface{}) error {
	return nil
}

type stageStoreMock struct{}

func (m stageStoreMock) Create(rec dbmodels.StageDefinition) (*dbmodels.StageDefinition, error) {
	return &rec, nil
}

func (m stageStoreMock) GetByID(id string) (*dbmodels.StageDefinition, error) {
	switch id {
	case documentStageID, interviewStageID, offerStageID:
		return &dbmodels.StageDefinition{BaseModel: dbmodels.BaseModel{ID: id}, IsActive: true}, nil
	}
	return nil, nil
}

func (m stageStoreMock) GetActiveByName(name string) (*dbmodels.StageDefinition, error) {
	return nil, nil
}

func (m stageStoreMock) List(activeOnly bool) ([]dbmodels.StageDefinition, error) {
	return nil, nil
}

func (m stageStoreMock) Update(id string, updMap map[string]interface{}, expectedVersion *int) (bool, error) {
	return true, nil
}

func (m stageStoreMock) MaxOrder() (int, error) {
	return 0, nil
}

func (m stageStoreMock) UpdateOrder(items []pipelineapimodels.OrderItem) error {
	return nil
}

func completed(stageID string, score *float64) dbmodels.StageProgress {
	return dbmodels.StageProgress{
		ApplicantID: applicantID,
		StageID:     stageID,
		Status:      models.ProgressStatusCompleted,
		Score:       score,
	}
}

func scorePtr(value float64) *float64 {
	return &value
}

func TestTransitionRule(t *testing.T) {
	t.Run(`prior stage must be completed`, func(t *testing.T) {
		rules := &ruleStoreMock{}
		progress := &progressStoreMock{}
		i := NewInstance(rules, progress, stageStoreMock{})
		_, err := i.Create(pipelineapimodels.TransitionRuleData{
			FromStageID:   documentStageID,
			ToStageID:     interviewStageID,
			ConditionType: models.ConditionAutomatic,
		})
		require.Nil(t, err)

		check, err := i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.False(t, check.CanTransition)
		require.Equal(t, ReasonPriorStageIncomplete, check.Reason)

		progress.list = append(progress.list, dbmodels.StageProgress{
			ApplicantID: applicantID,
			StageID:     documentStageID,
			Status:      models.ProgressStatusInProgress,
		})
		check, err = i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.Equal(t, ReasonPriorStageIncomplete, check.Reason)

		progress.list = append(progress.list, completed(documentStageID, nil))
		check, err = i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.True(t, check.CanTransition)
		require.Empty(t, check.Reason)
	})

	t.Run(`no rule`, func(t *testing.T) {
		progress := &progressStoreMock{list: []dbmodels.StageProgress{completed(documentStageID, nil)}}
		i := NewInstance(&ruleStoreMock{}, progress, stageStoreMock{})
		check, err := i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.False(t, check.CanTransition)
		require.Equal(t, ReasonNoRule, check.Reason)
	})

	t.Run(`minimum score`, func(t *testing.T) {
		rules := &ruleStoreMock{}
		progress := &progressStoreMock{list: []dbmodels.StageProgress{completed(interviewStageID, scorePtr(65))}}
		i := NewInstance(rules, progress, stageStoreMock{})
		_, err := i.Create(pipelineapimodels.TransitionRuleData{
			FromStageID:   interviewStageID,
			ToStageID:     offerStageID,
			ConditionType: models.ConditionConditional,
			MinScore:      scorePtr(70),
		})
		require.Nil(t, err)

		check, err := i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		require.Nil(t, err)
		require.False(t, check.CanTransition)
		require.Equal(t, fmt.Sprintf(ReasonMinScoreNotMet, 70.0), check.Reason)

		progress.list = append(progress.list, completed(interviewStageID, scorePtr(75)))
		check, err = i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		require.Nil(t, err)
		require.True(t, check.CanTransition)

		progress.list = append(progress.list, completed(interviewStageID, scorePtr(70)))
		check, err = i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		require.Nil(t, err)
		require.True(t, check.CanTransition)

		// без оценки условие не проверяется
		progress.list = append(progress.list, completed(interviewStageID, nil))
		check, err = i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		require.Nil(t, err)
		require.True(t, check.CanTransition)
	})

	t.Run(`manual and unknown conditions`, func(t *testing.T) {
		rules := &ruleStoreMock{list: []dbmodels.StageTransitionRule{
			{BaseModel: dbmodels.BaseModel{ID: "rule-manual"}, FromStageID: documentStageID, ToStageID: interviewStageID, ConditionType: models.ConditionManual},
			{BaseModel: dbmodels.BaseModel{ID: "rule-unknown"}, FromStageID: interviewStageID, ToStageID: offerStageID, ConditionType: "ai_review"},
		}}
		progress := &progressStoreMock{list: []dbmodels.StageProgress{
			completed(documentStageID, nil),
			completed(interviewStageID, scorePtr(90)),
		}}
		i := NewInstance(rules, progress, stageStoreMock{})

		check, err := i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.False(t, check.CanTransition)
		require.Equal(t, ReasonManualApproval, check.Reason)

		check, err = i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		require.Nil(t, err)
		require.False(t, check.CanTransition)
		require.Equal(t, ReasonUnknownCondition, check.Reason)
	})

	t.Run(`conditional rule without minimum score`, func(t *testing.T) {
		rules := &ruleStoreMock{list: []dbmodels.StageTransitionRule{
			{BaseModel: dbmodels.BaseModel{ID: "rule-broken"}, FromStageID: interviewStageID, ToStageID: offerStageID, ConditionType: models.ConditionConditional},
		}}
		progress := &progressStoreMock{list: []dbmodels.StageProgress{completed(interviewStageID, scorePtr(90))}}
		i := NewInstance(rules, progress, stageStoreMock{})
		_, err := i.CheckTransitionConditions(applicantID, interviewStageID, offerStageID)
		var ruleErr *errs.RuleEvaluationError
		require.ErrorAs(t, err, &ruleErr)
		require.Equal(t, "rule-broken", ruleErr.RuleID)
	})

	t.Run(`duplicate rules use the first one`, func(t *testing.T) {
		rules := &ruleStoreMock{list: []dbmodels.StageTransitionRule{
			{BaseModel: dbmodels.BaseModel{ID: "rule-1"}, FromStageID: documentStageID, ToStageID: interviewStageID, ConditionType: models.ConditionAutomatic},
			{BaseModel: dbmodels.BaseModel{ID: "rule-2"}, FromStageID: documentStageID, ToStageID: interviewStageID, ConditionType: models.ConditionManual},
			{BaseModel: dbmodels.BaseModel{ID: "rule-3"}, FromStageID: interviewStageID, ToStageID: offerStageID, ConditionType: models.ConditionManual},
		}}
		progress := &progressStoreMock{list: []dbmodels.StageProgress{completed(documentStageID, nil)}}
		i := NewInstance(rules, progress, stageStoreMock{})

		check, err := i.CheckTransitionConditions(applicantID, documentStageID, interviewStageID)
		require.Nil(t, err)
		require.True(t, check.CanTransition)

		duplicates, err := i.IntegrityCheck()
		require.Nil(t, err)
		require.Len(t, duplicates, 1)
		require.Equal(t, []string{"rule-1", "rule-2"}, duplicates[0].RuleIDs)
	})

	t.Run(`rule management`, func(t *testing.T) {
		rules := &ruleStoreMock{}
		i := NewInstance(rules, &progressStoreMock{}, stageStoreMock{})
		data := pipelineapimodels.TransitionRuleData{
			FromStageID:   documentStageID,
			ToStageID:     interviewStageID,
			ConditionType: models.ConditionManual,
		}
		created, err := i.Create(data)
		require.Nil(t, err)
		require.Equal(t, models.ConditionManual, created.ConditionType)

		_, err = i.Create(data)
		require.True(t, errs.IsConflict(err))

		_, err = i.Create(pipelineapimodels.TransitionRuleData{
			FromStageID:   documentStageID,
			ToStageID:     unknownStageID,
			ConditionType: models.ConditionAutomatic,
		})
		require.True(t, errs.IsNotFound(err))

		_, err = i.Create(pipelineapimodels.TransitionRuleData{
			FromStageID:   interviewStageID,
			ToStageID:     offerStageID,
			ConditionType: models.ConditionConditional,
		})
		require.True(t, errs.IsValidation(err))

		list, err := i.List()
		require.Nil(t, err)
		require.Len(t, list, 1)

		require.Nil(t, i.Delete(created.ID))
		err = i.Delete(created.ID)
		require.True(t, errs.IsNotFound(err))
	})
}
