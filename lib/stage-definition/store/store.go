package stagedefinitionstore

import (
	"recruit-pipeline-backend/lib/errs"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StageDefinition) (*dbmodels.StageDefinition, error)
	GetByID(id string) (*dbmodels.StageDefinition, error)
	GetActiveByName(name string) (*dbmodels.StageDefinition, error)
	List(activeOnly bool) ([]dbmodels.StageDefinition, error)
	Update(id string, updMap map[string]interface{}, expectedVersion *int) (updated bool, err error)
	MaxOrder() (int, error)
	UpdateOrder(items []pipelineapimodels.OrderItem) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StageDefinition) (*dbmodels.StageDefinition, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.StageDefinition, error) {
	rec := dbmodels.StageDefinition{}
	err := i.db.
		Model(&dbmodels.StageDefinition{}).
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

func (i impl) GetActiveByName(name string) (*dbmodels.StageDefinition, error) {
	rec := dbmodels.StageDefinition{}
	err := i.db.
		Model(&dbmodels.StageDefinition{}).
		Where("name = ?", name).
		Where("is_active = ?", true).
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

func (i impl) List(activeOnly bool) ([]dbmodels.StageDefinition, error) {
	list := []dbmodels.StageDefinition{}
	tx := i.db.Model(&dbmodels.StageDefinition{})
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

func (i impl) Update(id string, updMap map[string]interface{}, expectedVersion *int) (updated bool, err error) {
	if len(updMap) == 0 {
		return true, nil
	}
	updMap["config_version"] = gorm.Expr("config_version + 1")
	tx := i.db.
		Model(&dbmodels.StageDefinition{}).
		Where("id = ?", id)
	if expectedVersion != nil {
		tx = tx.Where("config_version = ?", *expectedVersion)
	}
	tx = tx.Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) MaxOrder() (order int, err error) {
	type result struct {
		MaxOrder *int
	}
	res := result{}
	err = i.db.Table("stage_definitions").
		Select("max(sort_order) as max_order").
		Find(&res).
		Error
	if err != nil {
		return 0, err
	}
	if res.MaxOrder == nil {
		return 0, nil
	}
	return *res.MaxOrder, nil
}

// UpdateOrder меняет порядок этапов одной транзакцией
func (i impl) UpdateOrder(items []pipelineapimodels.OrderItem) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.
				Model(&dbmodels.StageDefinition{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"sort_order":     item.SortOrder,
					"config_version": gorm.Expr("config_version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NewNotFound("этап", item.ID)
			}
		}
		return nil
	})
}
