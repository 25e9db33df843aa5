package taskinstancehandler

import (
	"context"
	"fmt"
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/lib/smtp"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	applicantID     = "00000000-0000-0000-0000-0000000000a1"
	stageID         = "00000000-0000-0000-0000-000000000001"
	emailTaskID     = "20000000-0000-0000-0000-000000000001"
	scheduleTaskID  = "20000000-0000-0000-0000-000000000002"
	documentTaskID  = "20000000-0000-0000-0000-000000000003"
	inactiveTaskID  = "20000000-0000-0000-0000-000000000004"
	unknownTaskID   = "20000000-0000-0000-0000-000000000099"
	otherStageID    = "00000000-0000-0000-0000-000000000002"
	otherTaskID     = "20000000-0000-0000-0000-000000000005"
	stageStartedDay = 10
)

var stageStartedAt = time.Date(2024, time.April, stageStartedDay, 9, 0, 0, 0, time.UTC)

type taskStoreMock struct {
	list []dbmodels.TaskDefinition
}

func (m taskStoreMock) Create(rec dbmodels.TaskDefinition) (*dbmodels.TaskDefinition, error) {
	return &rec, nil
}

func (m taskStoreMock) GetByID(id string) (*dbmodels.TaskDefinition, error) {
	for _, rec := range m.list {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m taskStoreMock) List(stageID string, activeOnly bool) ([]dbmodels.TaskDefinition, error) {
	result := []dbmodels.TaskDefinition{}
	for _, rec := range m.list {
		if rec.StageID == stageID && (!activeOnly || rec.IsActive) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m taskStoreMock) Update(id string, updMap map[string]interface{}) (bool, error) {
	return true, nil
}

func (m taskStoreMock) UpdateOrder(stageID string, items []pipelineapimodels.OrderItem) error {
	return nil
}

type instanceStoreMock struct {
	mu   sync.Mutex
	list []dbmodels.TaskInstance
}

func (m *instanceStoreMock) Create(rec dbmodels.TaskInstance) (*dbmodels.TaskInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = fmt.Sprintf("30000000-0000-0000-0000-%012d", len(m.list)+1)
	rec.CreatedAt = time.Now()
	m.list = append(m.list, rec)
	return &rec, nil
}

func (m *instanceStoreMock) GetByApplicantTask(applicantID, taskID string) (*dbmodels.TaskInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.list {
		if rec.ApplicantID == applicantID && rec.TaskID == taskID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *instanceStoreMock) ListByApplicant(applicantID string) ([]dbmodels.TaskInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []dbmodels.TaskInstance{}
	for _, rec := range m.list {
		if rec.ApplicantID == applicantID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *instanceStoreMock) Update(id string, updMap map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.list {
		rec := &m.list[k]
		if rec.ID != id {
			continue
		}
		if value, ok := updMap["status"]; ok {
			rec.Status = value.(models.TaskStatus)
		}
		if value, ok := updMap["notes"]; ok {
			rec.Notes = value.(string)
		}
		if value, ok := updMap["completed_at"]; ok {
			if completedAt, isTime := value.(time.Time); isTime {
				rec.CompletedAt = &completedAt
			} else {
				rec.CompletedAt = nil
			}
		}
		if value, ok := updMap["due_date"]; ok {
			if dueDate, isTime := value.(time.Time); isTime {
				rec.DueDate = &dueDate
			} else {
				rec.DueDate = nil
			}
		}
		return nil
	}
	return errors.New("record not found")
}

func (m *instanceStoreMock) ListOverdue(now time.Time, remindedBefore time.Time) ([]dbmodels.TaskInstance, error) {
	return nil, nil
}

type progressStoreMock struct {
	progress *dbmodels.StageProgress
}

func (m progressStoreMock) Create(rec dbmodels.StageProgress) (*dbmodels.StageProgress, error) {
	return &rec, nil
}

func (m progressStoreMock) GetByID(id string) (*dbmodels.StageProgress, error) {
	return nil, nil
}

func (m progressStoreMock) Latest(applicantID, stageID string) (*dbmodels.StageProgress, error) {
	if m.progress == nil || m.progress.ApplicantID != applicantID || m.progress.StageID != stageID {
		return nil, nil
	}
	return m.progress, nil
}

func (m progressStoreMock) ListByApplicant(applicantID string) ([]dbmodels.StageProgress, error) {
	return nil, nil
}

func (m progressStoreMock) ListByStage(stageID string) ([]dbmodels.StageProgress, error) {
	return nil, nil
}

func (m progressStoreMock) Update(id string, updMap map[string]interface{}) error {
	return nil
}

type applicantStoreMock struct{}

func (m applicantStoreMock) Create(rec dbmodels.Applicant) (*dbmodels.Applicant, error) {
	return &rec, nil
}

func (m applicantStoreMock) GetByID(id string) (*dbmodels.Applicant, error) {
	if id != applicantID {
		return nil, nil
	}
	return &dbmodels.Applicant{
		BaseModel: dbmodels.BaseModel{ID: applicantID},
		FirstName: "Taro",
		LastName:  "Yamada",
		Email:     "taro.yamada@example.com",
	}, nil
}

func (m applicantStoreMock) GetByIDs(ids []string) ([]dbmodels.Applicant, error) {
	return nil, nil
}

func (m applicantStoreMock) List(search string) ([]dbmodels.Applicant, error) {
	return nil, nil
}

type documentStoreMock struct {
	list []dbmodels.ApplicantDocument
}

func (m *documentStoreMock) Create(rec dbmodels.ApplicantDocument) (*dbmodels.ApplicantDocument, error) {
	rec.ID = fmt.Sprintf("40000000-0000-0000-0000-%012d", len(m.list)+1)
	m.list = append(m.list, rec)
	return &rec, nil
}

func (m *documentStoreMock) GetByID(id string) (*dbmodels.ApplicantDocument, error) {
	for _, rec := range m.list {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *documentStoreMock) List(applicantID, taskID string) ([]dbmodels.ApplicantDocument, error) {
	result := []dbmodels.ApplicantDocument{}
	for _, rec := range m.list {
		if rec.ApplicantID == applicantID && (taskID == "" || rec.TaskID == taskID) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *documentStoreMock) Delete(id string) error {
	for k, rec := range m.list {
		if rec.ID == id {
			m.list = append(m.list[:k], m.list[k+1:]...)
			return nil
		}
	}
	return nil
}

type senderMock struct {
	sent []string
}

func (m *senderMock) Send(to, subject, body string) (smtp.SendResult, error) {
	m.sent = append(m.sent, to)
	return smtp.SendResult{Success: true, MessageID: "<message@example.com>"}, nil
}

type blobStoreMock struct {
	objects   map[string][]byte
	uploadErr error
}

func (m *blobStoreMock) Upload(ctx context.Context, objectID string, file []byte, contentType string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[objectID] = file
	return nil
}

func (m *blobStoreMock) Get(ctx context.Context, objectID string) ([]byte, error) {
	data, ok := m.objects[objectID]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (m *blobStoreMock) Delete(ctx context.Context, objectID string) error {
	delete(m.objects, objectID)
	return nil
}

func (m *blobStoreMock) MakeBucket(ctx context.Context) error {
	return nil
}

type testEnv struct {
	instance  Provider
	instances *instanceStoreMock
	documents *documentStoreMock
	sender    *senderMock
	blobs     *blobStoreMock
}

// этап 書類選考 с письмом, согласованием даты и сбором документов
func getEnv(progress *dbmodels.StageProgress) testEnv {
	tasks := taskStoreMock{list: []dbmodels.TaskDefinition{
		{BaseModel: dbmodels.BaseModel{ID: documentTaskID}, StageID: stageID, Name: "submit_documents", TaskType: models.TaskTypeDocumentSubmission, SortOrder: 3, IsActive: true, DueOffsetDays: 7},
		{BaseModel: dbmodels.BaseModel{ID: emailTaskID}, StageID: stageID, Name: "send_result", TaskType: models.TaskTypeEmail, SortOrder: 1, IsActive: true, DueOffsetDays: 1},
		{BaseModel: dbmodels.BaseModel{ID: scheduleTaskID}, StageID: stageID, Name: "schedule_interview", TaskType: models.TaskTypeSchedulingContact, SortOrder: 2, IsActive: true, DueOffsetDays: 3},
		{BaseModel: dbmodels.BaseModel{ID: inactiveTaskID}, StageID: stageID, Name: "old_task", TaskType: models.TaskTypeGeneral, SortOrder: 4, IsActive: false},
		{BaseModel: dbmodels.BaseModel{ID: otherTaskID}, StageID: otherStageID, Name: "send_result", TaskType: models.TaskTypeEmail, SortOrder: 1, IsActive: true},
	}}
	env := testEnv{
		instances: &instanceStoreMock{},
		documents: &documentStoreMock{},
		sender:    &senderMock{},
		blobs:     &blobStoreMock{objects: map[string][]byte{}},
	}
	env.instance = NewInstance(tasks, env.instances, progressStoreMock{progress: progress}, applicantStoreMock{},
		env.documents, env.sender, env.blobs)
	return env
}

func startedProgress() *dbmodels.StageProgress {
	startedAt := stageStartedAt
	return &dbmodels.StageProgress{
		BaseModel:   dbmodels.BaseModel{ID: "50000000-0000-0000-0000-000000000001"},
		ApplicantID: applicantID,
		StageID:     stageID,
		Status:      models.ProgressStatusInProgress,
		StartedAt:   &startedAt,
	}
}

func TestTaskInstance(t *testing.T) {
	t.Run(`virtual tasks for stage`, func(t *testing.T) {
		env := getEnv(startedProgress())
		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Len(t, list, 3)

		require.Equal(t, emailTaskID, list[0].ID)
		require.Equal(t, scheduleTaskID, list[1].ID)
		require.Equal(t, documentTaskID, list[2].ID)

		require.Equal(t, models.TaskStatusNotStarted, list[0].Status)
		require.Equal(t, models.TaskStatusAwaitingReply, list[1].Status)
		require.Equal(t, models.TaskStatusAwaitingSubmission, list[2].Status)

		ids := map[string]bool{}
		for _, item := range list {
			require.True(t, item.IsVirtual)
			require.True(t, IsVirtualID(item.InstanceID))
			require.False(t, ids[item.InstanceID])
			ids[item.InstanceID] = true
			require.Equal(t, applicantID, item.ApplicantID)
			require.NotNil(t, item.DueDate)
			require.Equal(t, stageStartedAt.AddDate(0, 0, item.DueOffsetDays), *item.DueDate)
		}
		require.Empty(t, env.instances.list)
	})

	t.Run(`one entry per active task of the stage`, func(t *testing.T) {
		env := getEnv(startedProgress())
		env.instances.list = []dbmodels.TaskInstance{
			{BaseModel: dbmodels.BaseModel{ID: "30000000-0000-0000-0000-000000000101"}, ApplicantID: applicantID, TaskID: otherTaskID, Status: models.TaskStatusDone},
			{BaseModel: dbmodels.BaseModel{ID: "30000000-0000-0000-0000-000000000102"}, ApplicantID: applicantID, TaskID: inactiveTaskID, Status: models.TaskStatusInProgress},
			{BaseModel: dbmodels.BaseModel{ID: "30000000-0000-0000-0000-000000000103"}, ApplicantID: applicantID, TaskID: documentTaskID, Status: models.TaskStatusSubmitted},
			{BaseModel: dbmodels.BaseModel{ID: "30000000-0000-0000-0000-000000000104"}, ApplicantID: "00000000-0000-0000-0000-0000000000a2", TaskID: emailTaskID, Status: models.TaskStatusDone},
		}
		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Len(t, list, 3)
		taskIDs := make([]string, 0, len(list))
		for _, item := range list {
			taskIDs = append(taskIDs, item.ID)
		}
		require.Equal(t, []string{emailTaskID, scheduleTaskID, documentTaskID}, taskIDs)

		require.True(t, list[0].IsVirtual)
		require.Equal(t, models.TaskStatusNotStarted, list[0].Status)
		require.True(t, list[1].IsVirtual)
		require.False(t, list[2].IsVirtual)
		require.Equal(t, "30000000-0000-0000-0000-000000000103", list[2].InstanceID)
		require.Equal(t, models.TaskStatusSubmitted, list[2].Status)
	})

	t.Run(`no due date before stage start`, func(t *testing.T) {
		env := getEnv(nil)
		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Len(t, list, 3)
		for _, item := range list {
			require.Nil(t, item.DueDate)
		}
	})

	t.Run(`first update persists task`, func(t *testing.T) {
		env := getEnv(startedProgress())
		notes := "結果連絡済み"
		status := models.TaskStatusDone
		view, err := env.instance.UpdateTaskInstance(applicantID, emailTaskID, pipelineapimodels.TaskInstanceUpdate{
			Status: &status,
			Notes:  &notes,
		}, "user-1")
		require.Nil(t, err)
		require.False(t, view.IsVirtual)
		require.Equal(t, models.TaskStatusDone, view.Status)
		require.NotNil(t, view.CompletedAt)
		require.Equal(t, notes, view.Notes)
		require.Len(t, env.instances.list, 1)
		require.Equal(t, "user-1", *env.instances.list[0].UpdatedBy)

		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Len(t, list, 3)
		require.False(t, list[0].IsVirtual)
		require.Equal(t, view.InstanceID, list[0].InstanceID)
		require.True(t, list[1].IsVirtual)
		require.True(t, list[2].IsVirtual)

		status = models.TaskStatusInProgress
		view, err = env.instance.UpdateTaskInstance(applicantID, emailTaskID, pipelineapimodels.TaskInstanceUpdate{
			Status: &status,
		}, "user-1")
		require.Nil(t, err)
		require.Nil(t, view.CompletedAt)
		require.Equal(t, notes, view.Notes)
		require.Len(t, env.instances.list, 1)
		require.Nil(t, env.instances.list[0].CompletedAt)
	})

	t.Run(`update validation`, func(t *testing.T) {
		env := getEnv(startedProgress())
		_, err := env.instance.UpdateTaskInstance(applicantID, emailTaskID, pipelineapimodels.TaskInstanceUpdate{}, "")
		require.True(t, errs.IsValidation(err))

		notes := "memo"
		_, err = env.instance.UpdateTaskInstance(applicantID, unknownTaskID, pipelineapimodels.TaskInstanceUpdate{Notes: &notes}, "")
		require.True(t, errs.IsNotFound(err))
	})

	t.Run(`email updates task status`, func(t *testing.T) {
		env := getEnv(startedProgress())
		data := pipelineapimodels.TaskEmailData{Subject: "面接日程のご案内", Body: "ご都合の良い日時をお知らせください"}
		result, err := env.instance.SendTaskEmail(applicantID, scheduleTaskID, data, "user-1")
		require.Nil(t, err)
		require.True(t, result.Success)
		require.NotEmpty(t, result.MessageID)

		result, err = env.instance.SendTaskEmail(applicantID, emailTaskID, data, "user-1")
		require.Nil(t, err)
		require.True(t, result.Success)
		require.Equal(t, []string{"taro.yamada@example.com", "taro.yamada@example.com"}, env.sender.sent)

		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusDone, list[0].Status)
		require.Equal(t, models.TaskStatusAwaitingReply, list[1].Status)
		require.False(t, list[1].IsVirtual)

		_, err = env.instance.SendTaskEmail("00000000-0000-0000-0000-0000000000b2", emailTaskID, data, "")
		require.True(t, errs.IsNotFound(err))
		_, err = env.instance.SendTaskEmail(applicantID, emailTaskID, pipelineapimodels.TaskEmailData{}, "")
		require.True(t, errs.IsValidation(err))
	})

	t.Run(`upload document`, func(t *testing.T) {
		env := getEnv(startedProgress())
		file := pipelineapimodels.DocumentFile{Name: "resume.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
		view, err := env.instance.UploadTaskDocument(context.TODO(), applicantID, documentTaskID, file, "user-1")
		require.Nil(t, err)
		require.Equal(t, "resume.pdf", view.Name)
		require.Equal(t, int64(len(file.Data)), view.Size)
		require.Equal(t, file.Data, env.blobs.objects[view.ID])

		list, err := env.instance.GetTasksForApplicantStage(applicantID, stageID)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusSubmitted, list[2].Status)

		docs, err := env.instance.ListTaskDocuments(applicantID, documentTaskID)
		require.Nil(t, err)
		require.Len(t, docs, 1)

		doc, data, err := env.instance.GetTaskDocument(context.TODO(), view.ID)
		require.Nil(t, err)
		require.Equal(t, view.ID, doc.ID)
		require.Equal(t, file.Data, data)

		require.Nil(t, env.instance.DeleteTaskDocument(context.TODO(), view.ID))
		require.Empty(t, env.blobs.objects)
		require.Empty(t, env.documents.list)
		err = env.instance.DeleteTaskDocument(context.TODO(), view.ID)
		require.True(t, errs.IsNotFound(err))
	})

	t.Run(`failed upload leaves no document`, func(t *testing.T) {
		env := getEnv(startedProgress())
		env.blobs.uploadErr = errors.New("connection refused")
		file := pipelineapimodels.DocumentFile{Name: "resume.pdf", Data: []byte("%PDF-1.4")}
		_, err := env.instance.UploadTaskDocument(context.TODO(), applicantID, documentTaskID, file, "user-1")
		var dependencyErr *errs.DependencyError
		require.ErrorAs(t, err, &dependencyErr)
		require.Empty(t, env.documents.list)
		require.Empty(t, env.instances.list)

		_, err = env.instance.UploadTaskDocument(context.TODO(), applicantID, documentTaskID, pipelineapimodels.DocumentFile{}, "user-1")
		require.True(t, errs.IsValidation(err))
	})
}
