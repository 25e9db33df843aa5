package taskdefinitionhandler

import (
	"fmt"
	"recruit-pipeline-backend/db"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	taskdefinitionstore "recruit-pipeline-backend/lib/task-definition/store"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ListForStage(stageID string, includeInactive bool) ([]pipelineapimodels.TaskDefinitionView, error)
	GetByID(id string) (pipelineapimodels.TaskDefinitionView, error)
	Create(stageID string, data pipelineapimodels.TaskDefinitionData) (pipelineapimodels.TaskDefinitionView, error)
	Update(id string, data pipelineapimodels.TaskDefinitionUpdate) error
	Delete(id string) error
	Reorder(stageID string, items []pipelineapimodels.OrderItem) error
	Duplicate(sourceID, newName string) (pipelineapimodels.TaskDefinitionView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(taskdefinitionstore.NewInstance(db.DB), stagedefinitionstore.NewInstance(db.DB))
}

func NewInstance(store taskdefinitionstore.Provider, stageStore stagedefinitionstore.Provider) Provider {
	return impl{
		store:      store,
		stageStore: stageStore,
	}
}

type impl struct {
	store      taskdefinitionstore.Provider
	stageStore stagedefinitionstore.Provider
}

func (i impl) ListForStage(stageID string, includeInactive bool) ([]pipelineapimodels.TaskDefinitionView, error) {
	recList, err := i.store.List(stageID, !includeInactive)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка задач этапа")
	}
	result := make([]pipelineapimodels.TaskDefinitionView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, pipelineapimodels.TaskDefinitionConvert(rec))
	}
	return result, nil
}

func (i impl) GetByID(id string) (pipelineapimodels.TaskDefinitionView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, err
	}
	return pipelineapimodels.TaskDefinitionConvert(*rec), nil
}

func (i impl) Create(stageID string, data pipelineapimodels.TaskDefinitionData) (pipelineapimodels.TaskDefinitionView, error) {
	stage, err := i.stageStore.GetByID(stageID)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.Dependency(err, "ошибка получения этапа")
	}
	if stage == nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.NewNotFound("этап", stageID)
	}
	existing, err := i.store.List(stageID, false)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.Dependency(err, "ошибка получения списка задач этапа")
	}
	v := errs.Validation{}
	v.Merge(data.Validate())
	if data.Name != "" {
		v.Check(isUniqueName(existing, data.Name, ""), "задача %v уже есть на этапе", data.Name)
	}
	if err = v.Err(); err != nil {
		return pipelineapimodels.TaskDefinitionView{}, err
	}

	rec := dbmodels.TaskDefinition{
		StageID:         stageID,
		Name:            data.Name,
		DisplayName:     data.DisplayName,
		Description:     data.Description,
		TaskType:        data.TaskType,
		IsRequired:      data.IsRequired,
		IsActive:        true,
		DueOffsetDays:   data.DueOffsetDays,
		EmailTemplateID: data.EmailTemplateID,
	}
	if data.SortOrder != nil {
		rec.SortOrder = *data.SortOrder
	} else {
		rec.SortOrder = maxOrder(existing) + 1
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.Dependency(err, "ошибка создания задачи")
	}
	i.getLogger(stageID, created.ID).Info("создана задача этапа")
	return pipelineapimodels.TaskDefinitionConvert(*created), nil
}

func (i impl) Update(id string, data pipelineapimodels.TaskDefinitionUpdate) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	v := errs.Validation{}
	v.Merge(data.Validate())
	name := rec.Name
	if data.Name != nil {
		name = *data.Name
	}
	willBeActive := rec.IsActive
	if data.IsActive != nil {
		willBeActive = *data.IsActive
	}
	if willBeActive && name != "" && (name != rec.Name || !rec.IsActive) {
		existing, err := i.store.List(rec.StageID, false)
		if err != nil {
			return errs.Dependency(err, "ошибка получения списка задач этапа")
		}
		v.Check(isUniqueName(existing, name, id), "задача %v уже есть на этапе", name)
	}
	if err = v.Err(); err != nil {
		return err
	}
	updated, err := i.store.Update(id, data.UpdateMap())
	if err != nil {
		return errs.Dependency(err, "ошибка обновления задачи")
	}
	if !updated {
		return errs.NewNotFound("задача", id)
	}
	i.getLogger(rec.StageID, id).Info("обновлена задача этапа")
	return nil
}

func (i impl) Delete(id string) error {
	updated, err := i.store.Update(id, map[string]interface{}{"is_active": false})
	if err != nil {
		return errs.Dependency(err, "ошибка удаления задачи")
	}
	if !updated {
		return errs.NewNotFound("задача", id)
	}
	i.getLogger("", id).Info("задача этапа деактивирована")
	return nil
}

func (i impl) Reorder(stageID string, items []pipelineapimodels.OrderItem) error {
	if err := pipelineapimodels.ValidateOrder(items); err != nil {
		return err
	}
	if err := i.store.UpdateOrder(stageID, items); err != nil {
		return errs.Dependency(err, "ошибка изменения порядка задач")
	}
	i.getLogger(stageID, "").Info("изменен порядок задач этапа")
	return nil
}

// Duplicate копия задачи в конец списка этапа. Копия всегда активна, в том числе копия деактивированной задачи.
func (i impl) Duplicate(sourceID, newName string) (pipelineapimodels.TaskDefinitionView, error) {
	source, err := i.getRec(sourceID)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, err
	}
	if newName == "" {
		newName = fmt.Sprintf("%v_copy", source.Name)
	}
	existing, err := i.store.List(source.StageID, false)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.Dependency(err, "ошибка получения списка задач этапа")
	}
	v := errs.Validation{}
	v.Merge(pipelineapimodels.TaskDuplicateData{NewName: newName}.Validate())
	v.Check(isUniqueName(existing, newName, ""), "задача %v уже есть на этапе", newName)
	if err = v.Err(); err != nil {
		return pipelineapimodels.TaskDefinitionView{}, err
	}

	rec := *source
	rec.BaseModel = dbmodels.BaseModel{}
	rec.Name = newName
	rec.IsActive = true
	rec.SortOrder = maxOrder(existing) + 1
	created, err := i.store.Create(rec)
	if err != nil {
		return pipelineapimodels.TaskDefinitionView{}, errs.Dependency(err, "ошибка копирования задачи")
	}
	i.getLogger(source.StageID, created.ID).
		WithField("source_id", sourceID).
		Info("создана копия задачи этапа")
	return pipelineapimodels.TaskDefinitionConvert(*created), nil
}

func (i impl) getRec(id string) (*dbmodels.TaskDefinition, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения задачи")
	}
	if rec == nil {
		return nil, errs.NewNotFound("задача", id)
	}
	return rec, nil
}

func (i impl) getLogger(stageID, taskID string) *log.Entry {
	logger := log.WithField("component", "task_definition")
	if stageID != "" {
		logger = logger.WithField("stage_id", stageID)
	}
	if taskID != "" {
		logger = logger.WithField("task_id", taskID)
	}
	return logger
}

func isUniqueName(list []dbmodels.TaskDefinition, name, selfID string) bool {
	for _, rec := range list {
		if rec.IsActive && rec.Name == name && rec.ID != selfID {
			return false
		}
	}
	return true
}

func maxOrder(list []dbmodels.TaskDefinition) int {
	result := 0
	for _, rec := range list {
		if rec.SortOrder > result {
			result = rec.SortOrder
		}
	}
	return result
}
