package statusdefinitionstore

import (
	"recruit-pipeline-backend/lib/errs"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StatusDefinition) (*dbmodels.StatusDefinition, error)
	CreateList(list []dbmodels.StatusDefinition) ([]dbmodels.StatusDefinition, error)
	GetByID(stageID, id string) (*dbmodels.StatusDefinition, error)
	List(stageID string) ([]dbmodels.StatusDefinition, error)
	Update(stageID, id string, updMap map[string]interface{}) (updated bool, err error)
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

func (i impl) Create(rec dbmodels.StatusDefinition) (*dbmodels.StatusDefinition, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateList все статусы шаблона сохраняются одной транзакцией
func (i impl) CreateList(list []dbmodels.StatusDefinition) ([]dbmodels.StatusDefinition, error) {
	if len(list) == 0 {
		return list, nil
	}
	err := i.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetByID(stageID, id string) (*dbmodels.StatusDefinition, error) {
	rec := dbmodels.StatusDefinition{}
	err := i.db.
		Model(&dbmodels.StatusDefinition{}).
		Where("id = ?", id).
		Where("stage_id = ?", stageID).
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

func (i impl) List(stageID string) ([]dbmodels.StatusDefinition, error) {
	list := []dbmodels.StatusDefinition{}
	err := i.db.
		Model(&dbmodels.StatusDefinition{}).
		Where("stage_id = ?", stageID).
		Order("sort_order").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(stageID, id string, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return true, nil
	}
	tx := i.db.
		Model(&dbmodels.StatusDefinition{}).
		Where("id = ?", id).
		Where("stage_id = ?", stageID).
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
				Model(&dbmodels.StatusDefinition{}).
				Where("id = ?", item.ID).
				Where("stage_id = ?", stageID).
				Update("sort_order", item.SortOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NewNotFound("статус", item.ID)
			}
		}
		return nil
	})
}
