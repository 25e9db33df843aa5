package stageprogresshandler

import (
	"recruit-pipeline-backend/db"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	cursorstore "recruit-pipeline-backend/lib/stage-progress/cursor-store"
	stageprogressstore "recruit-pipeline-backend/lib/stage-progress/store"
	transitionrulehandler "recruit-pipeline-backend/lib/transition-rule"
	initchecker "recruit-pipeline-backend/lib/utils/init-checker"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	StartStage(applicantID, stageID, userID string) (pipelineapimodels.StageProgressView, error)
	CompleteStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error)
	SkipStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error)
	FailStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error)
	// AdvanceToNextStage завершает текущий этап и начинает следующий по порядку этапов, правила перехода не проверяются
	AdvanceToNextStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (*pipelineapimodels.StageProgressView, error)
	// TransitionTo переход с проверкой правил
	TransitionTo(applicantID string, data pipelineapimodels.TransitionData, userID string) (pipelineapimodels.TransitionResult, error)
	// Current этап, который кандидат проходит сейчас; nil, если последний этап уже в конечном статусе
	Current(applicantID string) (*pipelineapimodels.StageProgressView, error)
	History(applicantID string) ([]pipelineapimodels.StageProgressView, error)
}

// TxFunc выполняет fn в одной транзакции с хранилищами, привязанными к ней
type TxFunc func(fn func(store stageprogressstore.Provider, cursorStore cursorstore.Provider) error) error

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("transitionrulehandler", transitionrulehandler.Instance)
	Instance = NewInstance(
		stageprogressstore.NewInstance(db.DB),
		cursorstore.NewInstance(db.DB),
		stagedefinitionstore.NewInstance(db.DB),
		transitionrulehandler.Instance,
		dbTx,
	)
}

func NewInstance(store stageprogressstore.Provider, cursorStore cursorstore.Provider, stageStore stagedefinitionstore.Provider,
	evaluator transitionrulehandler.Provider, withTx TxFunc) Provider {
	return impl{
		store:       store,
		cursorStore: cursorStore,
		stageStore:  stageStore,
		evaluator:   evaluator,
		withTx:      withTx,
	}
}

func dbTx(fn func(store stageprogressstore.Provider, cursorStore cursorstore.Provider) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(stageprogressstore.NewInstance(tx), cursorstore.NewInstance(tx))
	})
}

type impl struct {
	store       stageprogressstore.Provider
	cursorStore cursorstore.Provider
	stageStore  stagedefinitionstore.Provider
	evaluator   transitionrulehandler.Provider
	withTx      TxFunc
}

func (i impl) StartStage(applicantID, stageID, userID string) (pipelineapimodels.StageProgressView, error) {
	stage, err := i.getActiveStage(stageID)
	if err != nil {
		return pipelineapimodels.StageProgressView{}, err
	}
	var rec *dbmodels.StageProgress
	err = i.withTx(func(store stageprogressstore.Provider, cursorStore cursorstore.Provider) (err error) {
		rec, err = startInTx(store, cursorStore, applicantID, stageID, userID)
		return err
	})
	if err != nil {
		return pipelineapimodels.StageProgressView{}, errs.Dependency(err, "ошибка начала этапа")
	}
	rec.Stage = stage
	i.getLogger(applicantID, stageID).
		WithField("progress_id", rec.ID).
		Info("кандидат начал этап")
	return pipelineapimodels.StageProgressConvert(*rec), nil
}

func (i impl) CompleteStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error) {
	return i.finish(applicantID, data, models.ProgressStatusCompleted, userID)
}

func (i impl) SkipStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error) {
	data.Score = nil
	return i.finish(applicantID, data, models.ProgressStatusSkipped, userID)
}

func (i impl) FailStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (pipelineapimodels.StageProgressView, error) {
	return i.finish(applicantID, data, models.ProgressStatusFailed, userID)
}

func (i impl) finish(applicantID string, data pipelineapimodels.StageActionData, status models.ProgressStatus, userID string) (pipelineapimodels.StageProgressView, error) {
	if err := data.Validate(); err != nil {
		return pipelineapimodels.StageProgressView{}, err
	}
	var rec *dbmodels.StageProgress
	err := i.withTx(func(store stageprogressstore.Provider, cursorStore cursorstore.Provider) (err error) {
		rec, err = finishInTx(store, cursorStore, applicantID, data, status, userID)
		return err
	})
	if err != nil {
		return pipelineapimodels.StageProgressView{}, errs.Dependency(err, "ошибка изменения статуса этапа")
	}
	i.getLogger(applicantID, data.StageID).
		WithField("progress_id", rec.ID).
		WithField("status", status).
		Info("изменен статус этапа кандидата")
	return pipelineapimodels.StageProgressConvert(*rec), nil
}

func (i impl) AdvanceToNextStage(applicantID string, data pipelineapimodels.StageActionData, userID string) (*pipelineapimodels.StageProgressView, error) {
	logger := i.getLogger(applicantID, data.StageID)
	if err := data.Validate(); err != nil {
		return nil, err
	}
	next, err := i.nextStage(data.StageID)
	if err != nil {
		return nil, err
	}
	var rec *dbmodels.StageProgress
	err = i.withTx(func(store stageprogressstore.Provider, cursorStore cursorstore.Provider) (err error) {
		if _, err = finishInTx(store, cursorStore, applicantID, data, models.ProgressStatusCompleted, userID); err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		rec, err = startInTx(store, cursorStore, applicantID, next.ID, userID)
		return err
	})
	if err != nil {
		return nil, errs.Dependency(err, "ошибка перехода на следующий этап")
	}
	if next == nil {
		logger.Info("кандидат завершил последний этап")
		return nil, nil
	}
	rec.Stage = next
	logger.
		WithField("next_stage_id", next.ID).
		WithField("progress_id", rec.ID).
		Info("кандидат переведен на следующий этап")
	view := pipelineapimodels.StageProgressConvert(*rec)
	return &view, nil
}

func (i impl) TransitionTo(applicantID string, data pipelineapimodels.TransitionData, userID string) (pipelineapimodels.TransitionResult, error) {
	if err := data.Validate(); err != nil {
		return pipelineapimodels.TransitionResult{}, err
	}
	check, err := i.evaluator.CheckTransitionConditions(applicantID, data.FromStageID, data.ToStageID)
	if err != nil {
		return pipelineapimodels.TransitionResult{}, err
	}
	if !check.CanTransition {
		i.getLogger(applicantID, data.FromStageID).
			WithField("to_stage_id", data.ToStageID).
			WithField("reason", check.Reason).
			Info("переход между этапами не разрешен")
		return pipelineapimodels.TransitionResult{TransitionCheck: check}, nil
	}
	progress, err := i.StartStage(applicantID, data.ToStageID, userID)
	if err != nil {
		return pipelineapimodels.TransitionResult{}, err
	}
	return pipelineapimodels.TransitionResult{TransitionCheck: check, Progress: &progress}, nil
}

func (i impl) Current(applicantID string) (*pipelineapimodels.StageProgressView, error) {
	cursor, err := i.cursorStore.Get(applicantID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения текущего этапа")
	}
	if cursor == nil {
		return nil, nil
	}
	rec, err := i.store.GetByID(cursor.CurrentProgressID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения текущего этапа")
	}
	if rec == nil || !rec.Status.IsCurrent() {
		return nil, nil
	}
	rec.Stage, err = i.stageStore.GetByID(rec.StageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения этапа")
	}
	view := pipelineapimodels.StageProgressConvert(*rec)
	return &view, nil
}

func (i impl) History(applicantID string) ([]pipelineapimodels.StageProgressView, error) {
	list, err := i.store.ListByApplicant(applicantID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения истории этапов")
	}
	result := make([]pipelineapimodels.StageProgressView, 0, len(list))
	for _, rec := range list {
		result = append(result, pipelineapimodels.StageProgressConvert(rec))
	}
	return result, nil
}

func (i impl) getActiveStage(stageID string) (*dbmodels.StageDefinition, error) {
	stage, err := i.stageStore.GetByID(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения этапа")
	}
	if stage == nil {
		return nil, errs.NewNotFound("этап", stageID)
	}
	if !stage.IsActive {
		return nil, errs.NewValidationError("этап " + stage.Name + " неактивен")
	}
	return stage, nil
}

// nextStage следующий активный этап по порядку справочника, nil если этап последний
func (i impl) nextStage(stageID string) (*dbmodels.StageDefinition, error) {
	stageList, err := i.stageStore.List(false)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка этапов")
	}
	found := false
	for k := range stageList {
		if found && stageList[k].IsActive {
			return &stageList[k], nil
		}
		if stageList[k].ID == stageID {
			found = true
		}
	}
	if !found {
		return nil, errs.NewNotFound("этап", stageID)
	}
	return nil, nil
}

func (i impl) getLogger(applicantID, stageID string) *log.Entry {
	return log.
		WithField("component", "stage_progress").
		WithField("applicant_id", applicantID).
		WithField("stage_id", stageID)
}

func startInTx(store stageprogressstore.Provider, cursorStore cursorstore.Provider, applicantID, stageID, userID string) (*dbmodels.StageProgress, error) {
	now := time.Now()
	rec := dbmodels.StageProgress{
		ApplicantID: applicantID,
		StageID:     stageID,
		Status:      models.ProgressStatusInProgress,
		StartedAt:   &now,
	}
	if userID != "" {
		rec.ActorID = &userID
	}
	created, err := store.Create(rec)
	if err != nil {
		return nil, err
	}
	if err = cursorStore.Set(applicantID, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func finishInTx(store stageprogressstore.Provider, cursorStore cursorstore.Provider, applicantID string,
	data pipelineapimodels.StageActionData, status models.ProgressStatus, userID string) (*dbmodels.StageProgress, error) {
	rec, err := resolveCurrent(store, cursorStore, applicantID, data.StageID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updMap := map[string]interface{}{
		"status":       status,
		"completed_at": now,
	}
	rec.Status = status
	rec.CompletedAt = &now
	if data.Score != nil {
		updMap["score"] = *data.Score
		rec.Score = data.Score
	}
	if data.Notes != "" {
		updMap["notes"] = data.Notes
		rec.Notes = data.Notes
	}
	if userID != "" {
		updMap["actor_id"] = userID
		rec.ActorID = &userID
	}
	if err = store.Update(rec.ID, updMap); err != nil {
		return nil, err
	}
	return rec, nil
}

// resolveCurrent запись этапа, на которую указывает курсор кандидата, иначе последняя начатая по этапу
func resolveCurrent(store stageprogressstore.Provider, cursorStore cursorstore.Provider, applicantID, stageID string) (*dbmodels.StageProgress, error) {
	var rec *dbmodels.StageProgress
	cursor, err := cursorStore.Get(applicantID)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		rec, err = store.GetByID(cursor.CurrentProgressID)
		if err != nil {
			return nil, err
		}
		if rec != nil && rec.StageID != stageID {
			rec = nil
		}
	}
	if rec == nil {
		rec, err = store.Latest(applicantID, stageID)
		if err != nil {
			return nil, err
		}
	}
	if rec == nil {
		return nil, errs.NewNotFound("прохождение этапа", stageID)
	}
	if rec.Status.IsTerminal() {
		return nil, errs.NewConflict("этап уже в конечном статусе %v", rec.Status)
	}
	return rec, nil
}
