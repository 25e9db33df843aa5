package statusdefinitionhandler

import (
	"recruit-pipeline-backend/db"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	statusdefinitionstore "recruit-pipeline-backend/lib/status-definition/store"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"sort"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ListForStage(stageID string, includeInactive bool) ([]pipelineapimodels.StatusDefinitionView, error)
	Create(stageID string, data pipelineapimodels.StatusDefinitionData) (pipelineapimodels.StatusDefinitionView, error)
	Update(stageID, id string, data pipelineapimodels.StatusDefinitionUpdate) error
	Delete(stageID, id string) error
	Reorder(stageID string, items []pipelineapimodels.OrderItem) error
	CreateFromTemplate(templateKey models.StatusTemplate, stageID string) ([]pipelineapimodels.StatusDefinitionView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(statusdefinitionstore.NewInstance(db.DB), stagedefinitionstore.NewInstance(db.DB))
}

func NewInstance(store statusdefinitionstore.Provider, stageStore stagedefinitionstore.Provider) Provider {
	return impl{
		store:      store,
		stageStore: stageStore,
	}
}

type impl struct {
	store      statusdefinitionstore.Provider
	stageStore stagedefinitionstore.Provider
}

func (i impl) ListForStage(stageID string, includeInactive bool) ([]pipelineapimodels.StatusDefinitionView, error) {
	stage, err := i.getStage(stageID)
	if err != nil {
		return nil, err
	}
	recList, err := i.store.List(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка статусов этапа")
	}
	if len(recList) == 0 {
		recList = DefaultStatuses(*stage)
	}
	sort.SliceStable(recList, func(k, j int) bool {
		return recList[k].SortOrder < recList[j].SortOrder
	})
	result := make([]pipelineapimodels.StatusDefinitionView, 0, len(recList))
	for _, rec := range recList {
		if !rec.IsActive && !includeInactive {
			continue
		}
		result = append(result, pipelineapimodels.StatusDefinitionConvert(rec))
	}
	return result, nil
}

func (i impl) Create(stageID string, data pipelineapimodels.StatusDefinitionData) (pipelineapimodels.StatusDefinitionView, error) {
	if _, err := i.getStage(stageID); err != nil {
		return pipelineapimodels.StatusDefinitionView{}, err
	}
	existing, err := i.store.List(stageID)
	if err != nil {
		return pipelineapimodels.StatusDefinitionView{}, errs.Dependency(err, "ошибка получения списка статусов этапа")
	}
	v := errs.Validation{}
	v.Merge(data.Validate())
	if data.StatusValue != "" {
		v.Check(isUniqueValue(existing, data.StatusValue, ""), "статус %v уже есть на этапе", data.StatusValue)
	}
	if err = v.Err(); err != nil {
		return pipelineapimodels.StatusDefinitionView{}, err
	}

	rec := dbmodels.StatusDefinition{
		StageID:        stageID,
		StatusValue:    data.StatusValue,
		DisplayName:    data.DisplayName,
		StatusCategory: data.StatusCategory,
		ColorScheme:    data.ColorScheme,
		IsActive:       true,
		IsFinal:        data.IsFinal,
	}
	if data.SortOrder != nil {
		rec.SortOrder = *data.SortOrder
	} else {
		rec.SortOrder = maxOrder(existing) + 1
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return pipelineapimodels.StatusDefinitionView{}, errs.Dependency(err, "ошибка создания статуса")
	}
	i.getLogger(stageID).
		WithField("status_value", created.StatusValue).
		Info("создан статус этапа")
	return pipelineapimodels.StatusDefinitionConvert(*created), nil
}

func (i impl) Update(stageID, id string, data pipelineapimodels.StatusDefinitionUpdate) error {
	rec, err := i.store.GetByID(stageID, id)
	if err != nil {
		return errs.Dependency(err, "ошибка получения статуса")
	}
	if rec == nil {
		return errs.NewNotFound("статус", id)
	}
	v := errs.Validation{}
	v.Merge(data.Validate())
	value := rec.StatusValue
	if data.StatusValue != nil {
		value = *data.StatusValue
	}
	willBeActive := rec.IsActive
	if data.IsActive != nil {
		willBeActive = *data.IsActive
	}
	if willBeActive && value != "" && (value != rec.StatusValue || !rec.IsActive) {
		existing, err := i.store.List(stageID)
		if err != nil {
			return errs.Dependency(err, "ошибка получения списка статусов этапа")
		}
		v.Check(isUniqueValue(existing, value, id), "статус %v уже есть на этапе", value)
	}
	if err = v.Err(); err != nil {
		return err
	}
	updated, err := i.store.Update(stageID, id, data.UpdateMap())
	if err != nil {
		return errs.Dependency(err, "ошибка обновления статуса")
	}
	if !updated {
		return errs.NewNotFound("статус", id)
	}
	i.getLogger(stageID).WithField("status_id", id).Info("обновлен статус этапа")
	return nil
}

func (i impl) Delete(stageID, id string) error {
	updated, err := i.store.Update(stageID, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return errs.Dependency(err, "ошибка удаления статуса")
	}
	if !updated {
		return errs.NewNotFound("статус", id)
	}
	i.getLogger(stageID).WithField("status_id", id).Info("статус этапа деактивирован")
	return nil
}

func (i impl) Reorder(stageID string, items []pipelineapimodels.OrderItem) error {
	if err := pipelineapimodels.ValidateOrder(items); err != nil {
		return err
	}
	if err := i.store.UpdateOrder(stageID, items); err != nil {
		return errs.Dependency(err, "ошибка изменения порядка статусов")
	}
	i.getLogger(stageID).Info("изменен порядок статусов этапа")
	return nil
}

func (i impl) CreateFromTemplate(templateKey models.StatusTemplate, stageID string) ([]pipelineapimodels.StatusDefinitionView, error) {
	items, ok := dbmodels.StatusTemplates[templateKey]
	if !ok {
		return nil, errs.NewValidationError("неизвестный шаблон статусов: " + string(templateKey))
	}
	if _, err := i.getStage(stageID); err != nil {
		return nil, err
	}
	existing, err := i.store.List(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка статусов этапа")
	}
	v := errs.Validation{}
	for _, item := range items {
		v.Check(isUniqueValue(existing, item.StatusValue, ""), "статус %v уже есть на этапе", item.StatusValue)
	}
	if err = v.Err(); err != nil {
		return nil, err
	}

	startOrder := maxOrder(existing) + 1
	list := make([]dbmodels.StatusDefinition, 0, len(items))
	for k, item := range items {
		list = append(list, dbmodels.StatusDefinition{
			StageID:        stageID,
			StatusValue:    item.StatusValue,
			DisplayName:    item.DisplayName,
			StatusCategory: item.StatusCategory,
			ColorScheme:    item.ColorScheme,
			SortOrder:      startOrder + k,
			IsActive:       true,
			IsFinal:        item.IsFinal,
		})
	}
	created, err := i.store.CreateList(list)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка создания статусов по шаблону")
	}
	i.getLogger(stageID).
		WithField("template", templateKey).
		WithField("count", len(created)).
		Info("созданы статусы этапа по шаблону")
	result := make([]pipelineapimodels.StatusDefinitionView, 0, len(created))
	for _, rec := range created {
		result = append(result, pipelineapimodels.StatusDefinitionConvert(rec))
	}
	return result, nil
}

// DefaultStatuses статусы этапа, пока для него ничего не настроено. Не сохраняются.
func DefaultStatuses(stage dbmodels.StageDefinition) []dbmodels.StatusDefinition {
	templateKey := stage.StatusTemplate
	if templateKey == "" {
		templateKey = dbmodels.ResolveStatusTemplate(stage.Name, stage.StageGroup)
	}
	items, ok := dbmodels.StatusTemplates[templateKey]
	if !ok {
		items = dbmodels.StatusTemplates[models.StatusTemplateDefault]
	}
	result := make([]dbmodels.StatusDefinition, 0, len(items))
	for k, item := range items {
		result = append(result, dbmodels.StatusDefinition{
			StageID:        stage.ID,
			StatusValue:    item.StatusValue,
			DisplayName:    item.DisplayName,
			StatusCategory: item.StatusCategory,
			ColorScheme:    item.ColorScheme,
			SortOrder:      k + 1,
			IsActive:       true,
			IsFinal:        item.IsFinal,
		})
	}
	return result
}

func (i impl) getStage(stageID string) (*dbmodels.StageDefinition, error) {
	stage, err := i.stageStore.GetByID(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения этапа")
	}
	if stage == nil {
		return nil, errs.NewNotFound("этап", stageID)
	}
	return stage, nil
}

func (i impl) getLogger(stageID string) *log.Entry {
	return log.
		WithField("component", "status_definition").
		WithField("stage_id", stageID)
}

func isUniqueValue(list []dbmodels.StatusDefinition, value, selfID string) bool {
	for _, rec := range list {
		if rec.IsActive && rec.StatusValue == value && rec.ID != selfID {
			return false
		}
	}
	return true
}

func maxOrder(list []dbmodels.StatusDefinition) int {
	result := 0
	for _, rec := range list {
		if rec.SortOrder > result {
			result = rec.SortOrder
		}
	}
	return result
}
