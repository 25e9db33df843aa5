package taskdefinitionstore

import (
	"recruit-pipeline-backend/lib/errs"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TaskDefinition) (*dbmodels.TaskDefinition, error)
	GetByID(id string) (*dbmodels.TaskDefinition, error)
	List(stageID string, activeOnly bool) ([]dbmodels.TaskDefinition, error)
	Update(id string, updMap map[string]interface{}) (updated bool, err error)
	UpdateOrder(stageID string, items []pipelineapimodels.OrderItem) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskDefinition) (*dbmodels.TaskDefinition, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.TaskDefinition, error) {
	rec := dbmodels.TaskDefinition{}
	err := i.db.
		Model(&dbmodels.TaskDefinition{}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(stageID string, activeOnly bool) ([]dbmodels.TaskDefinition, error) {
	list := []dbmodels.TaskDefinition{}
	tx := i.db.
		Model(&dbmodels.TaskDefinition{}).
		Where("stage_id = ?", stageID)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	err := tx.
		Order("sort_order").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return true, nil
	}
	tx := i.db.
		Model(&dbmodels.TaskDefinition{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) UpdateOrder(stageID string, items []pipelineapimodels.OrderItem) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.
				Model(&dbmodels.TaskDefinition{}).
				Where("id = ?", item.ID).
				Where("stage_id = ?", stageID).
				Update("sort_order", item.SortOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NewNotFound("задача", item.ID)
			}
		}
		return nil
	})
}
