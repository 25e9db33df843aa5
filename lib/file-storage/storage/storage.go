package filesdbstorage

import (
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApplicantDocument) (*dbmodels.ApplicantDocument, error)
	GetByID(id string) (*dbmodels.ApplicantDocument, error)
	List(applicantID, taskID string) ([]dbmodels.ApplicantDocument, error)
	Delete(id string) error
}

type impl struct {
	db *gorm.DB
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

func (i impl) Create(rec dbmodels.ApplicantDocument) (*dbmodels.ApplicantDocument, error) {
	err := i.db.Create(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApplicantDocument, error) {
	rec := dbmodels.ApplicantDocument{}
	err := i.db.
		Model(&dbmodels.ApplicantDocument{}).
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

func (i impl) List(applicantID, taskID string) ([]dbmodels.ApplicantDocument, error) {
	list := []dbmodels.ApplicantDocument{}
	tx := i.db.
		Model(&dbmodels.ApplicantDocument{}).
		Where("applicant_id = ?", applicantID)
	if taskID != "" {
		tx = tx.Where("task_id = ?", taskID)
	}
	err := tx.
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.ApplicantDocument{}).
		Error
}
