package stageprogressstore

import (
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StageProgress) (*dbmodels.StageProgress, error)
	GetByID(id string) (*dbmodels.StageProgress, error)
	// Latest последняя начатая запись кандидата по этапу
	Latest(applicantID, stageID string) (*dbmodels.StageProgress, error)
	ListByApplicant(applicantID string) ([]dbmodels.StageProgress, error)
	ListByStage(stageID string) ([]dbmodels.StageProgress, error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StageProgress) (*dbmodels.StageProgress, error) {
	err := i.db.
		Omit("Stage").
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.StageProgress, error) {
	rec := dbmodels.StageProgress{}
	err := i.db.
		Model(&dbmodels.StageProgress{}).
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

func (i impl) Latest(applicantID, stageID string) (*dbmodels.StageProgress, error) {
	rec := dbmodels.StageProgress{}
	err := i.db.
		Model(&dbmodels.StageProgress{}).
		Where("applicant_id = ?", applicantID).
		Where("stage_id = ?", stageID).
		Order("started_at desc nulls last").
		Order("created_at desc").
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

func (i impl) ListByApplicant(applicantID string) ([]dbmodels.StageProgress, error) {
	list := []dbmodels.StageProgress{}
	err := i.db.
		Model(&dbmodels.StageProgress{}).
		Where("applicant_id = ?", applicantID).
		Order("started_at").
		Order("created_at").
		Preload("Stage").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByStage(stageID string) ([]dbmodels.StageProgress, error) {
	list := []dbmodels.StageProgress{}
	err := i.db.
		Model(&dbmodels.StageProgress{}).
		Where("stage_id = ?", stageID).
		Order("started_at").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.StageProgress{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}
