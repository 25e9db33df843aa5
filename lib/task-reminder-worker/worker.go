package taskreminderworker

import (
	"context"
	"fmt"
	"recruit-pipeline-backend/config"
	"recruit-pipeline-backend/db"
	applicantstore "recruit-pipeline-backend/lib/applicant/store"
	"recruit-pipeline-backend/lib/smtp"
	taskdefinitionstore "recruit-pipeline-backend/lib/task-definition/store"
	taskinstancestore "recruit-pipeline-backend/lib/task-instance/store"
	baseworker "recruit-pipeline-backend/lib/utils/base-worker"
	"recruit-pipeline-backend/lib/utils/helpers"
	"recruit-pipeline-backend/lib/utils/lock"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"
)

const workerName = "TaskReminderWorker"

// Задача напоминания кандидатам о просроченных задачах, ожидающих их ответа или документов
func StartWorker(ctx context.Context) {
	conf := config.Conf.Reminder
	if conf.Enabled != nil && !*conf.Enabled {
		return
	}
	i := &impl{
		BaseImpl:       *baseworker.NewInstance(workerName, time.Duration(conf.StartDelaySeconds)*time.Second, time.Duration(conf.IntervalMinutes)*time.Minute),
		instanceStore:  taskinstancestore.NewInstance(db.DB),
		taskStore:      taskdefinitionstore.NewInstance(db.DB),
		applicantStore: applicantstore.NewInstance(db.DB),
		sender:         smtp.Instance,
		repeatPeriod:   time.Duration(conf.RepeatHours) * time.Hour,
		subject:        conf.Subject,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	instanceStore  taskinstancestore.Provider
	taskStore      taskdefinitionstore.Provider
	applicantStore applicantstore.Provider
	sender         smtp.Provider
	repeatPeriod   time.Duration
	subject        string
}

func (i impl) handle(ctx context.Context) {
	ok, err := lock.WithDelay(ctx, workerName, time.Second, func() error {
		return i.remind(ctx, time.Now())
	})
	if err != nil {
		i.GetLogger().WithError(err).Error("ошибка отправки напоминаний по задачам")
		return
	}
	if !ok {
		i.GetLogger().Warn("предыдущий запуск напоминаний еще не завершен")
	}
}

// remind отправляет напоминания и возвращает ошибку, только если не удалось получить список задач
func (i impl) remind(ctx context.Context, now time.Time) error {
	logger := i.GetLogger()
	list, err := i.instanceStore.ListOverdue(now, now.Add(-i.repeatPeriod))
	if err != nil {
		return err
	}
	tasks := map[string]*dbmodels.TaskDefinition{}
	applicants := map[string]*dbmodels.Applicant{}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			return nil
		}
		recLogger := logger.
			WithField("applicant_id", rec.ApplicantID).
			WithField("task_id", rec.TaskID)
		task, ok := tasks[rec.TaskID]
		if !ok {
			task, err = i.taskStore.GetByID(rec.TaskID)
			if err != nil {
				recLogger.WithError(err).Error("ошибка получения задачи")
				continue
			}
			tasks[rec.TaskID] = task
		}
		if task == nil || !task.IsActive {
			continue
		}
		applicant, ok := applicants[rec.ApplicantID]
		if !ok {
			applicant, err = i.applicantStore.GetByID(rec.ApplicantID)
			if err != nil {
				recLogger.WithError(err).Error("ошибка получения кандидата")
				continue
			}
			applicants[rec.ApplicantID] = applicant
		}
		if applicant == nil || applicant.Email == "" {
			continue
		}
		result, err := i.sender.Send(applicant.Email, i.subject, reminderBody(*applicant, *task, rec))
		if err != nil {
			recLogger.WithError(err).Error("ошибка отправки напоминания кандидату")
			continue
		}
		if !result.Success {
			continue
		}
		err = i.instanceStore.Update(rec.ID, map[string]interface{}{"last_reminded_at": now})
		if err != nil {
			recLogger.WithError(err).Error("ошибка сохранения даты напоминания")
			continue
		}
		recLogger.WithField("message_id", result.MessageID).Info("кандидату отправлено напоминание о задаче")
	}
	return nil
}

func reminderBody(applicant dbmodels.Applicant, task dbmodels.TaskDefinition, rec dbmodels.TaskInstance) string {
	dueDate := ""
	if rec.DueDate != nil {
		dueDate = rec.DueDate.Format("02.01.2006")
	}
	return fmt.Sprintf("Здравствуйте, %v!\r\n\r\nНапоминаем о задаче \"%v\", срок выполнения которой истек %v.\r\n%v",
		applicant.FirstName, task.DisplayName, dueDate, task.Description)
}
