package taskreminderworker

import (
	"context"
	"recruit-pipeline-backend/lib/smtp"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type instanceStoreMock struct {
	overdue []dbmodels.TaskInstance
	updated map[string]map[string]interface{}
}

func (m *instanceStoreMock) Create(rec dbmodels.TaskInstance) (*dbmodels.TaskInstance, error) {
	return &rec, nil
}

func (m *instanceStoreMock) GetByApplicantTask(applicantID, taskID string) (*dbmodels.TaskInstance, error) {
	return nil, nil
}

func (m *instanceStoreMock) ListByApplicant(applicantID string) ([]dbmodels.TaskInstance, error) {
	return nil, nil
}

func (m *instanceStoreMock) Update(id string, updMap map[string]interface{}) error {
	m.updated[id] = updMap
	return nil
}

func (m *instanceStoreMock) ListOverdue(now time.Time, remindedBefore time.Time) ([]dbmodels.TaskInstance, error) {
	return m.overdue, nil
}

type taskStoreMock struct {
	calls int
}

func (m *taskStoreMock) Create(rec dbmodels.TaskDefinition) (*dbmodels.TaskDefinition, error) {
	return &rec, nil
}

func (m *taskStoreMock) GetByID(id string) (*dbmodels.TaskDefinition, error) {
	m.calls++
	switch id {
	case "task-active":
		return &dbmodels.TaskDefinition{
			BaseModel:   dbmodels.BaseModel{ID: id},
			DisplayName: "書類提出",
			TaskType:    models.TaskTypeDocumentSubmission,
			IsActive:    true,
		}, nil
	case "task-inactive":
		return &dbmodels.TaskDefinition{BaseModel: dbmodels.BaseModel{ID: id}, IsActive: false}, nil
	}
	return nil, nil
}

func (m *taskStoreMock) List(stageID string, activeOnly bool) ([]dbmodels.TaskDefinition, error) {
	return nil, nil
}

func (m *taskStoreMock) Update(id string, updMap map[string]interface{}) (bool, error) {
	return true, nil
}

func (m *taskStoreMock) UpdateOrder(stageID string, items []pipelineapimodels.OrderItem) error {
	return nil
}

type applicantStoreMock struct{}

func (m applicantStoreMock) Create(rec dbmodels.Applicant) (*dbmodels.Applicant, error) {
	return &rec, nil
}

func (m applicantStoreMock) GetByID(id string) (*dbmodels.Applicant, error) {
	switch id {
	case "applicant-1":
		return &dbmodels.Applicant{BaseModel: dbmodels.BaseModel{ID: id}, FirstName: "Hanako", Email: "hanako@example.com"}, nil
	case "applicant-no-email":
		return &dbmodels.Applicant{BaseModel: dbmodels.BaseModel{ID: id}, FirstName: "Jiro"}, nil
	case "applicant-fail":
		return &dbmodels.Applicant{BaseModel: dbmodels.BaseModel{ID: id}, FirstName: "Ken", Email: "fail@example.com"}, nil
	}
	return nil, nil
}

func (m applicantStoreMock) GetByIDs(ids []string) ([]dbmodels.Applicant, error) {
	return nil, nil
}

func (m applicantStoreMock) List(search string) ([]dbmodels.Applicant, error) {
	return nil, nil
}

type senderMock struct {
	sent []string
}

func (m *senderMock) Send(to, subject, body string) (smtp.SendResult, error) {
	if to == "fail@example.com" {
		return smtp.SendResult{}, errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return smtp.SendResult{Success: true, MessageID: "<reminder@example.com>"}, nil
}

func TestTaskReminder(t *testing.T) {
	t.Run(`remind overdue tasks`, func(t *testing.T) {
		dueDate := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		instances := &instanceStoreMock{
			updated: map[string]map[string]interface{}{},
			overdue: []dbmodels.TaskInstance{
				{BaseModel: dbmodels.BaseModel{ID: "inst-1"}, ApplicantID: "applicant-1", TaskID: "task-active", Status: models.TaskStatusAwaitingSubmission, DueDate: &dueDate},
				{BaseModel: dbmodels.BaseModel{ID: "inst-2"}, ApplicantID: "applicant-no-email", TaskID: "task-active", Status: models.TaskStatusAwaitingSubmission, DueDate: &dueDate},
				{BaseModel: dbmodels.BaseModel{ID: "inst-3"}, ApplicantID: "applicant-1", TaskID: "task-inactive", Status: models.TaskStatusAwaitingReply, DueDate: &dueDate},
				{BaseModel: dbmodels.BaseModel{ID: "inst-4"}, ApplicantID: "applicant-fail", TaskID: "task-active", Status: models.TaskStatusAwaitingSubmission, DueDate: &dueDate},
				{BaseModel: dbmodels.BaseModel{ID: "inst-5"}, ApplicantID: "applicant-1", TaskID: "task-deleted", Status: models.TaskStatusAwaitingReply, DueDate: &dueDate},
			},
		}
		tasks := &taskStoreMock{}
		sender := &senderMock{}
		i := impl{
			instanceStore:  instances,
			taskStore:      tasks,
			applicantStore: applicantStoreMock{},
			sender:         sender,
			repeatPeriod:   24 * time.Hour,
			subject:        "Напоминание о задаче",
		}
		now := time.Date(2024, time.May, 3, 12, 0, 0, 0, time.UTC)
		err := i.remind(context.TODO(), now)
		require.Nil(t, err)

		require.Equal(t, []string{"hanako@example.com"}, sender.sent)
		require.Len(t, instances.updated, 1)
		require.Equal(t, now, instances.updated["inst-1"]["last_reminded_at"])
		// задачи запрашиваются один раз
		require.Equal(t, 3, tasks.calls)
	})

	t.Run(`stopped context`, func(t *testing.T) {
		dueDate := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		instances := &instanceStoreMock{
			updated: map[string]map[string]interface{}{},
			overdue: []dbmodels.TaskInstance{
				{BaseModel: dbmodels.BaseModel{ID: "inst-1"}, ApplicantID: "applicant-1", TaskID: "task-active", Status: models.TaskStatusAwaitingSubmission, DueDate: &dueDate},
			},
		}
		sender := &senderMock{}
		i := impl{
			instanceStore:  instances,
			taskStore:      &taskStoreMock{},
			applicantStore: applicantStoreMock{},
			sender:         sender,
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.Nil(t, i.remind(ctx, time.Now()))
		require.Empty(t, sender.sent)
	})

	t.Run(`reminder body`, func(t *testing.T) {
		dueDate := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		body := reminderBody(
			dbmodels.Applicant{FirstName: "Hanako"},
			dbmodels.TaskDefinition{DisplayName: "書類提出", Description: "履歴書を提出してください"},
			dbmodels.TaskInstance{DueDate: &dueDate},
		)
		require.Contains(t, body, "Hanako")
		require.Contains(t, body, "書類提出")
		require.Contains(t, body, "01.05.2024")
		require.Contains(t, body, "履歴書を提出してください")
	})
}
