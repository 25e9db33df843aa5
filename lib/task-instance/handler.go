package taskinstancehandler

import (
	"context"
	"recruit-pipeline-backend/db"
	applicantstore "recruit-pipeline-backend/lib/applicant/store"
	"recruit-pipeline-backend/lib/errs"
	filestorage "recruit-pipeline-backend/lib/file-storage"
	filesdbstorage "recruit-pipeline-backend/lib/file-storage/storage"
	"recruit-pipeline-backend/lib/smtp"
	stageprogressstore "recruit-pipeline-backend/lib/stage-progress/store"
	taskdefinitionstore "recruit-pipeline-backend/lib/task-definition/store"
	taskinstancestore "recruit-pipeline-backend/lib/task-instance/store"
	initchecker "recruit-pipeline-backend/lib/utils/init-checker"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const VirtualIDPrefix = "virtual:"

type Provider interface {
	GetTasksForApplicantStage(applicantID, stageID string) ([]pipelineapimodels.ApplicantTaskView, error)
	UpdateTaskInstance(applicantID, taskID string, data pipelineapimodels.TaskInstanceUpdate, userID string) (pipelineapimodels.ApplicantTaskView, error)
	SendTaskEmail(applicantID, taskID string, data pipelineapimodels.TaskEmailData, userID string) (pipelineapimodels.TaskEmailResult, error)
	UploadTaskDocument(ctx context.Context, applicantID, taskID string, file pipelineapimodels.DocumentFile, userID string) (pipelineapimodels.DocumentView, error)
	ListTaskDocuments(applicantID, taskID string) ([]pipelineapimodels.DocumentView, error)
	GetTaskDocument(ctx context.Context, documentID string) (pipelineapimodels.DocumentView, []byte, error)
	DeleteTaskDocument(ctx context.Context, documentID string) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"smtp", smtp.Instance,
		"filestorage", filestorage.Instance,
	)
	Instance = NewInstance(
		taskdefinitionstore.NewInstance(db.DB),
		taskinstancestore.NewInstance(db.DB),
		stageprogressstore.NewInstance(db.DB),
		applicantstore.NewInstance(db.DB),
		filesdbstorage.NewInstance(db.DB),
		smtp.Instance,
		filestorage.Instance,
	)
}

func NewInstance(taskStore taskdefinitionstore.Provider, instanceStore taskinstancestore.Provider,
	progressStore stageprogressstore.Provider, applicantStore applicantstore.Provider,
	documentStore filesdbstorage.Provider, sender smtp.Provider, blobStore filestorage.Provider) Provider {
	return impl{
		taskStore:      taskStore,
		instanceStore:  instanceStore,
		progressStore:  progressStore,
		applicantStore: applicantStore,
		documentStore:  documentStore,
		sender:         sender,
		blobStore:      blobStore,
	}
}

type impl struct {
	taskStore      taskdefinitionstore.Provider
	instanceStore  taskinstancestore.Provider
	progressStore  stageprogressstore.Provider
	applicantStore applicantstore.Provider
	documentStore  filesdbstorage.Provider
	sender         smtp.Provider
	blobStore      filestorage.Provider
}

func (i impl) GetTasksForApplicantStage(applicantID, stageID string) ([]pipelineapimodels.ApplicantTaskView, error) {
	var (
		taskList     []dbmodels.TaskDefinition
		instanceList []dbmodels.TaskInstance
		progress     *dbmodels.StageProgress
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		taskList, err = i.taskStore.List(stageID, true)
		return errs.Dependency(err, "ошибка получения списка задач этапа")
	})
	g.Go(func() (err error) {
		instanceList, err = i.instanceStore.ListByApplicant(applicantID)
		return errs.Dependency(err, "ошибка получения задач кандидата")
	})
	g.Go(func() (err error) {
		progress, err = i.progressStore.Latest(applicantID, stageID)
		return errs.Dependency(err, "ошибка получения прохождения этапа")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	instanceMap := make(map[string]dbmodels.TaskInstance, len(instanceList))
	for _, rec := range instanceList {
		instanceMap[rec.TaskID] = rec
	}
	sort.SliceStable(taskList, func(k, j int) bool {
		return taskList[k].SortOrder < taskList[j].SortOrder
	})
	result := make([]pipelineapimodels.ApplicantTaskView, 0, len(taskList))
	for _, task := range taskList {
		if instance, ok := instanceMap[task.ID]; ok {
			result = append(result, taskView(task, instance))
			continue
		}
		result = append(result, taskView(task, virtualInstance(applicantID, task, progress)))
	}
	return result, nil
}

func (i impl) UpdateTaskInstance(applicantID, taskID string, data pipelineapimodels.TaskInstanceUpdate, userID string) (pipelineapimodels.ApplicantTaskView, error) {
	if err := data.Validate(); err != nil {
		return pipelineapimodels.ApplicantTaskView{}, err
	}
	task, err := i.getTask(taskID)
	if err != nil {
		return pipelineapimodels.ApplicantTaskView{}, err
	}
	rec, err := i.applyUpdate(applicantID, *task, data, userID)
	if err != nil {
		return pipelineapimodels.ApplicantTaskView{}, err
	}
	return taskView(*task, *rec), nil
}

func (i impl) SendTaskEmail(applicantID, taskID string, data pipelineapimodels.TaskEmailData, userID string) (pipelineapimodels.TaskEmailResult, error) {
	logger := i.getLogger(applicantID, taskID)
	if err := data.Validate(); err != nil {
		return pipelineapimodels.TaskEmailResult{}, err
	}
	task, err := i.getTask(taskID)
	if err != nil {
		return pipelineapimodels.TaskEmailResult{}, err
	}
	applicant, err := i.applicantStore.GetByID(applicantID)
	if err != nil {
		return pipelineapimodels.TaskEmailResult{}, errs.Dependency(err, "ошибка получения кандидата")
	}
	if applicant == nil {
		return pipelineapimodels.TaskEmailResult{}, errs.NewNotFound("кандидат", applicantID)
	}
	if applicant.Email == "" {
		return pipelineapimodels.TaskEmailResult{}, errs.NewValidationError("у кандидата не указан email")
	}
	sendResult, err := i.sender.Send(applicant.Email, data.Subject, data.Body)
	if err != nil {
		return pipelineapimodels.TaskEmailResult{}, errs.Dependency(err, "ошибка отправки письма кандидату")
	}
	if !sendResult.Success {
		logger.Warn("письмо кандидату не отправлено")
		return pipelineapimodels.TaskEmailResult{}, nil
	}
	status := models.TaskStatusDone
	if task.TaskType.AwaitsApplicant() {
		status = models.TaskStatusAwaitingReply
	}
	_, err = i.applyUpdate(applicantID, *task, pipelineapimodels.TaskInstanceUpdate{Status: &status}, userID)
	if err != nil {
		return pipelineapimodels.TaskEmailResult{}, err
	}
	logger.WithField("message_id", sendResult.MessageID).Info("письмо по задаче отправлено кандидату")
	return pipelineapimodels.TaskEmailResult{Success: true, MessageID: sendResult.MessageID}, nil
}

func (i impl) UploadTaskDocument(ctx context.Context, applicantID, taskID string, file pipelineapimodels.DocumentFile, userID string) (pipelineapimodels.DocumentView, error) {
	logger := i.getLogger(applicantID, taskID)
	if err := file.Validate(); err != nil {
		return pipelineapimodels.DocumentView{}, err
	}
	task, err := i.getTask(taskID)
	if err != nil {
		return pipelineapimodels.DocumentView{}, err
	}
	rec, err := i.documentStore.Create(dbmodels.ApplicantDocument{
		ApplicantID: applicantID,
		TaskID:      taskID,
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		UploadedBy:  userID,
	})
	if err != nil {
		return pipelineapimodels.DocumentView{}, errs.Dependency(err, "ошибка сохранения документа")
	}
	err = i.blobStore.Upload(ctx, rec.ID, file.Data, file.ContentType)
	if err != nil {
		if delErr := i.documentStore.Delete(rec.ID); delErr != nil {
			logger.WithError(delErr).Error("ошибка удаления записи документа после неудачной загрузки")
		}
		return pipelineapimodels.DocumentView{}, errs.Dependency(err, "ошибка загрузки документа в хранилище")
	}
	status := models.TaskStatusSubmitted
	_, err = i.applyUpdate(applicantID, *task, pipelineapimodels.TaskInstanceUpdate{Status: &status}, userID)
	if err != nil {
		return pipelineapimodels.DocumentView{}, err
	}
	logger.WithField("document_id", rec.ID).Info("загружен документ по задаче")
	return pipelineapimodels.DocumentConvert(*rec), nil
}

func (i impl) ListTaskDocuments(applicantID, taskID string) ([]pipelineapimodels.DocumentView, error) {
	list, err := i.documentStore.List(applicantID, taskID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка документов")
	}
	result := make([]pipelineapimodels.DocumentView, 0, len(list))
	for _, rec := range list {
		result = append(result, pipelineapimodels.DocumentConvert(rec))
	}
	return result, nil
}

func (i impl) GetTaskDocument(ctx context.Context, documentID string) (pipelineapimodels.DocumentView, []byte, error) {
	rec, err := i.getDocument(documentID)
	if err != nil {
		return pipelineapimodels.DocumentView{}, nil, err
	}
	data, err := i.blobStore.Get(ctx, rec.ID)
	if err != nil {
		return pipelineapimodels.DocumentView{}, nil, errs.Dependency(err, "ошибка получения документа из хранилища")
	}
	return pipelineapimodels.DocumentConvert(*rec), data, nil
}

func (i impl) DeleteTaskDocument(ctx context.Context, documentID string) error {
	rec, err := i.getDocument(documentID)
	if err != nil {
		return err
	}
	if err = i.blobStore.Delete(ctx, rec.ID); err != nil {
		return errs.Dependency(err, "ошибка удаления документа из хранилища")
	}
	if err = i.documentStore.Delete(rec.ID); err != nil {
		return errs.Dependency(err, "ошибка удаления записи документа")
	}
	i.getLogger(rec.ApplicantID, rec.TaskID).
		WithField("document_id", documentID).
		Info("документ по задаче удален")
	return nil
}

// applyUpdate сохраняет задачу кандидата при первом изменении, далее обновляет существующую запись
func (i impl) applyUpdate(applicantID string, task dbmodels.TaskDefinition, data pipelineapimodels.TaskInstanceUpdate, userID string) (*dbmodels.TaskInstance, error) {
	logger := i.getLogger(applicantID, task.ID)
	now := time.Now()
	rec, err := i.instanceStore.GetByApplicantTask(applicantID, task.ID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения задачи кандидата")
	}
	if rec == nil {
		progress, err := i.progressStore.Latest(applicantID, task.StageID)
		if err != nil {
			return nil, errs.Dependency(err, "ошибка получения прохождения этапа")
		}
		newRec := virtualInstance(applicantID, task, progress)
		newRec.ID = ""
		applyPatch(&newRec, data, userID, now)
		rec, err = i.instanceStore.Create(newRec)
		if err == nil {
			logger.Info("задача кандидата сохранена")
			return rec, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Dependency(err, "ошибка сохранения задачи кандидата")
		}
		// задачу успели сохранить параллельным запросом
		rec, err = i.instanceStore.GetByApplicantTask(applicantID, task.ID)
		if err != nil {
			return nil, errs.Dependency(err, "ошибка получения задачи кандидата")
		}
		if rec == nil {
			return nil, errs.NewConflict("задача кандидата изменена параллельно, повторите запрос")
		}
	}
	updMap := patchMap(*rec, data, userID, now)
	if err = i.instanceStore.Update(rec.ID, updMap); err != nil {
		return nil, errs.Dependency(err, "ошибка обновления задачи кандидата")
	}
	applyPatch(rec, data, userID, now)
	logger.Info("задача кандидата обновлена")
	return rec, nil
}

func (i impl) getTask(taskID string) (*dbmodels.TaskDefinition, error) {
	task, err := i.taskStore.GetByID(taskID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения задачи")
	}
	if task == nil {
		return nil, errs.NewNotFound("задача", taskID)
	}
	return task, nil
}

func (i impl) getDocument(documentID string) (*dbmodels.ApplicantDocument, error) {
	rec, err := i.documentStore.GetByID(documentID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения документа")
	}
	if rec == nil {
		return nil, errs.NewNotFound("документ", documentID)
	}
	return rec, nil
}

func (i impl) getLogger(applicantID, taskID string) *log.Entry {
	return log.
		WithField("component", "task_instance").
		WithField("applicant_id", applicantID).
		WithField("task_id", taskID)
}

// IsVirtualID задача еще не сохранялась
func IsVirtualID(id string) bool {
	return strings.HasPrefix(id, VirtualIDPrefix)
}

func virtualInstance(applicantID string, task dbmodels.TaskDefinition, progress *dbmodels.StageProgress) dbmodels.TaskInstance {
	rec := dbmodels.TaskInstance{
		ApplicantID: applicantID,
		TaskID:      task.ID,
		Status:      task.TaskType.InitialStatus(),
	}
	rec.ID = VirtualIDPrefix + uuid.New().String()
	if progress != nil && progress.StartedAt != nil {
		dueDate := progress.StartedAt.AddDate(0, 0, task.DueOffsetDays)
		rec.DueDate = &dueDate
	}
	return rec
}

func applyPatch(rec *dbmodels.TaskInstance, data pipelineapimodels.TaskInstanceUpdate, userID string, now time.Time) {
	if data.Status != nil {
		if *data.Status == models.TaskStatusDone && rec.Status != models.TaskStatusDone {
			rec.CompletedAt = &now
		}
		if *data.Status != models.TaskStatusDone {
			rec.CompletedAt = nil
		}
		rec.Status = *data.Status
	}
	if data.Notes != nil {
		rec.Notes = *data.Notes
	}
	if data.DueDate != nil {
		rec.DueDate = data.DueDate
	}
	if data.ClearDueDate {
		rec.DueDate = nil
	}
	if userID != "" {
		rec.UpdatedBy = &userID
	}
}

func patchMap(rec dbmodels.TaskInstance, data pipelineapimodels.TaskInstanceUpdate, userID string, now time.Time) map[string]interface{} {
	updMap := map[string]interface{}{}
	if data.Status != nil {
		updMap["status"] = *data.Status
		if *data.Status == models.TaskStatusDone && rec.Status != models.TaskStatusDone {
			updMap["completed_at"] = now
		}
		if *data.Status != models.TaskStatusDone {
			updMap["completed_at"] = nil
		}
	}
	if data.Notes != nil {
		updMap["notes"] = *data.Notes
	}
	if data.DueDate != nil {
		updMap["due_date"] = *data.DueDate
	}
	if data.ClearDueDate {
		updMap["due_date"] = nil
	}
	if userID != "" {
		updMap["updated_by"] = userID
	}
	return updMap
}

func taskView(task dbmodels.TaskDefinition, rec dbmodels.TaskInstance) pipelineapimodels.ApplicantTaskView {
	return pipelineapimodels.ApplicantTaskView{
		TaskDefinitionView: pipelineapimodels.TaskDefinitionConvert(task),
		InstanceID:         rec.ID,
		IsVirtual:          IsVirtualID(rec.ID),
		ApplicantID:        rec.ApplicantID,
		Status:             rec.Status,
		DueDate:            rec.DueDate,
		CompletedAt:        rec.CompletedAt,
		Notes:              rec.Notes,
	}
}
