package cursorstore

import (
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Get(applicantID string) (*dbmodels.ApplicantStageCursor, error)
	Set(applicantID, progressID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Get(applicantID string) (*dbmodels.ApplicantStageCursor, error) {
	rec := dbmodels.ApplicantStageCursor{}
	err := i.db.
		Model(&dbmodels.ApplicantStageCursor{}).
		Where("applicant_id = ?", applicantID).
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

func (i impl) Set(applicantID, progressID string) error {
	rec := dbmodels.ApplicantStageCursor{
		ApplicantID:       applicantID,
		CurrentProgressID: progressID,
	}
	return i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "applicant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_progress_id", "updated_at"}),
		}).
		Create(&rec).
		Error
}
