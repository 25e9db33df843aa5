package taskinstancestore

import (
	"recruit-pipeline-backend/models"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TaskInstance) (*dbmodels.TaskInstance, error)
	GetByApplicantTask(applicantID, taskID string) (*dbmodels.TaskInstance, error)
	ListByApplicant(applicantID string) ([]dbmodels.TaskInstance, error)
	Update(id string, updMap map[string]interface{}) error
	// ListOverdue сохраненные задачи в ожидании кандидата с истекшим сроком
	ListOverdue(now time.Time, remindedBefore time.Time) ([]dbmodels.TaskInstance, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskInstance) (*dbmodels.TaskInstance, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByApplicantTask(applicantID, taskID string) (*dbmodels.TaskInstance, error) {
	rec := dbmodels.TaskInstance{}
	err := i.db.
		Model(&dbmodels.TaskInstance{}).
		Where("applicant_id = ?", applicantID).
		Where("task_id = ?", taskID).
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

func (i impl) ListByApplicant(applicantID string) ([]dbmodels.TaskInstance, error) {
	list := []dbmodels.TaskInstance{}
	err := i.db.
		Model(&dbmodels.TaskInstance{}).
		Where("applicant_id = ?", applicantID).
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
		Model(&dbmodels.TaskInstance{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListOverdue(now time.Time, remindedBefore time.Time) ([]dbmodels.TaskInstance, error) {
	list := []dbmodels.TaskInstance{}
	err := i.db.
		Model(&dbmodels.TaskInstance{}).
		Where("status in (?)", []models.TaskStatus{models.TaskStatusAwaitingReply, models.TaskStatusAwaitingSubmission}).
		Where("due_date is not null and due_date < ?", now).
		Where("last_reminded_at is null or last_reminded_at < ?", remindedBefore).
		Order("due_date").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
