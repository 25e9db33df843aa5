package stagedefinitionhandler

import (
	"recruit-pipeline-backend/db"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	ListAll() ([]pipelineapimodels.StageDefinitionView, error)
	ListActive() ([]pipelineapimodels.StageDefinitionView, error)
	GetByID(id string) (pipelineapimodels.StageDefinitionView, error)
	Create(data pipelineapimodels.StageDefinitionData) (pipelineapimodels.StageDefinitionView, error)
	Update(id string, data pipelineapimodels.StageDefinitionUpdate) error
	Delete(id string) error
	Reorder(items []pipelineapimodels.OrderItem) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(stagedefinitionstore.NewInstance(db.DB))
}

func NewInstance(store stagedefinitionstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store stagedefinitionstore.Provider
}

func (i impl) ListAll() ([]pipelineapimodels.StageDefinitionView, error) {
	return i.list(false)
}

func (i impl) ListActive() ([]pipelineapimodels.StageDefinitionView, error) {
	return i.list(true)
}

func (i impl) list(activeOnly bool) ([]pipelineapimodels.StageDefinitionView, error) {
	recList, err := i.store.List(activeOnly)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка этапов")
	}
	result := make([]pipelineapimodels.StageDefinitionView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, pipelineapimodels.StageDefinitionConvert(rec))
	}
	return result, nil
}

func (i impl) GetByID(id string) (pipelineapimodels.StageDefinitionView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return pipelineapimodels.StageDefinitionView{}, err
	}
	return pipelineapimodels.StageDefinitionConvert(*rec), nil
}

func (i impl) Create(data pipelineapimodels.StageDefinitionData) (pipelineapimodels.StageDefinitionView, error) {
	v := errs.Validation{}
	v.Merge(data.Validate())
	if data.Name != "" {
		unique, err := i.isUnique(data.Name, "")
		if err != nil {
			return pipelineapimodels.StageDefinitionView{}, err
		}
		v.Check(unique, "этап с именем %v уже существует", data.Name)
	}
	if err := v.Err(); err != nil {
		return pipelineapimodels.StageDefinitionView{}, err
	}

	rec := dbmodels.StageDefinition{
		Name:                     data.Name,
		DisplayName:              data.DisplayName,
		Description:              data.Description,
		StageGroup:               data.StageGroup,
		IsActive:                 true,
		ColorScheme:              data.ColorScheme,
		Icon:                     data.Icon,
		EstimatedDurationMinutes: data.EstimatedDurationMinutes,
		RequiresSession:          data.RequiresSession,
		SessionTypes:             data.SessionTypes,
		ConfigVersion:            1,
		StatusTemplate:           data.StatusTemplate,
		Extensions:               data.Extensions,
	}
	if rec.StatusTemplate == "" {
		rec.StatusTemplate = dbmodels.ResolveStatusTemplate(data.Name, data.StageGroup)
	}
	if data.SortOrder != nil {
		rec.SortOrder = *data.SortOrder
	} else {
		maxOrder, err := i.store.MaxOrder()
		if err != nil {
			return pipelineapimodels.StageDefinitionView{}, errs.Dependency(err, "ошибка получения порядкового номера этапа")
		}
		rec.SortOrder = maxOrder + 1
	}

	created, err := i.store.Create(rec)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pipelineapimodels.StageDefinitionView{}, errs.NewConflict("этап с именем %v уже существует", data.Name)
		}
		return pipelineapimodels.StageDefinitionView{}, errs.Dependency(err, "ошибка создания этапа")
	}
	i.getLogger(created.ID).
		WithField("name", created.Name).
		WithField("status_template", created.StatusTemplate).
		Info("создан этап подбора")
	return pipelineapimodels.StageDefinitionConvert(*created), nil
}

func (i impl) Update(id string, data pipelineapimodels.StageDefinitionUpdate) error {
	logger := i.getLogger(id)
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
		unique, err := i.isUnique(name, id)
		if err != nil {
			return err
		}
		v.Check(unique, "этап с именем %v уже существует", name)
	}
	if err = v.Err(); err != nil {
		return err
	}

	updated, err := i.store.Update(id, data.UpdateMap(), data.ConfigVersion)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflict("этап с именем %v уже существует", name)
		}
		return errs.Dependency(err, "ошибка обновления этапа")
	}
	if !updated {
		if data.ConfigVersion != nil {
			return errs.NewConflict("конфигурация этапа была изменена (ожидаемая версия %v)", *data.ConfigVersion)
		}
		return errs.NewNotFound("этап", id)
	}
	logger.Info("обновлен этап подбора")
	return nil
}

// Delete этап не удаляется физически, только деактивируется
func (i impl) Delete(id string) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if !rec.IsActive {
		return nil
	}
	updated, err := i.store.Update(id, map[string]interface{}{"is_active": false}, nil)
	if err != nil {
		return errs.Dependency(err, "ошибка удаления этапа")
	}
	if !updated {
		return errs.NewNotFound("этап", id)
	}
	i.getLogger(id).Info("этап подбора деактивирован")
	return nil
}

func (i impl) Reorder(items []pipelineapimodels.OrderItem) error {
	if err := pipelineapimodels.ValidateOrder(items); err != nil {
		return err
	}
	err := i.store.UpdateOrder(items)
	if err != nil {
		return errs.Dependency(err, "ошибка изменения порядка этапов")
	}
	log.WithField("count", len(items)).Info("изменен порядок этапов подбора")
	return nil
}

func (i impl) getRec(id string) (*dbmodels.StageDefinition, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения этапа")
	}
	if rec == nil {
		return nil, errs.NewNotFound("этап", id)
	}
	return rec, nil
}

func (i impl) isUnique(name, selfID string) (bool, error) {
	rec, err := i.store.GetActiveByName(name)
	if err != nil {
		return false, errs.Dependency(err, "ошибка проверки уникальности имени этапа")
	}
	return rec == nil || rec.ID == selfID, nil
}

func (i impl) getLogger(stageID string) *log.Entry {
	logger := log.WithField("component", "stage_definition")
	if stageID != "" {
		logger = logger.WithField("stage_id", stageID)
	}
	return logger
}
