package transitionrulestore

import (
	dbmodels "recruit-pipeline-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StageTransitionRule) (*dbmodels.StageTransitionRule, error)
	List() ([]dbmodels.StageTransitionRule, error)
	// ListByPair правила для пары этапов, первым идет самое раннее
	ListByPair(fromStageID, toStageID string) ([]dbmodels.StageTransitionRule, error)
	Delete(id string) (deleted bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StageTransitionRule) (*dbmodels.StageTransitionRule, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) List() ([]dbmodels.StageTransitionRule, error) {
	list := []dbmodels.StageTransitionRule{}
	err := i.db.
		Model(&dbmodels.StageTransitionRule{}).
		Order("created_at").
		Order("id").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByPair(fromStageID, toStageID string) ([]dbmodels.StageTransitionRule, error) {
	list := []dbmodels.StageTransitionRule{}
	err := i.db.
		Model(&dbmodels.StageTransitionRule{}).
		Where("from_stage_id = ?", fromStageID).
		Where("to_stage_id = ?", toStageID).
		Order("created_at").
		Order("id").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) (bool, error) {
	tx := i.db.
		Where("id = ?", id).
		Delete(&dbmodels.StageTransitionRule{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected != 0, nil
}
