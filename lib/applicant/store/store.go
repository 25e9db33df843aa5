package applicantstore

import (
	dbmodels "recruit-pipeline-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Applicant) (*dbmodels.Applicant, error)
	GetByID(id string) (*dbmodels.Applicant, error)
	GetByIDs(ids []string) ([]dbmodels.Applicant, error)
	List(search string) ([]dbmodels.Applicant, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Applicant) (*dbmodels.Applicant, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Applicant, error) {
	rec := dbmodels.Applicant{}
	err := i.db.
		Model(&dbmodels.Applicant{}).
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

func (i impl) GetByIDs(ids []string) ([]dbmodels.Applicant, error) {
	list := []dbmodels.Applicant{}
	if len(ids) == 0 {
		return list, nil
	}
	err := i.db.
		Model(&dbmodels.Applicant{}).
		Where("id in (?)", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) List(search string) ([]dbmodels.Applicant, error) {
	list := []dbmodels.Applicant{}
	tx := i.db.Model(&dbmodels.Applicant{})
	if search != "" {
		searchValue := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("LOWER(CONCAT(last_name,' ', first_name)) like ? or phone like ? or LOWER(email) like ?", searchValue, searchValue, searchValue)
	}
	err := tx.
		Order("last_name").
		Order("first_name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
