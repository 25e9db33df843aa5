package initializers

import (
	"context"
	"recruit-pipeline-backend/config"
	"recruit-pipeline-backend/fiberlog"
	"recruit-pipeline-backend/lib/applicant"
	xlsexport "recruit-pipeline-backend/lib/export/xls"
	pipelinereport "recruit-pipeline-backend/lib/pipeline-report"
	stagedefinitionhandler "recruit-pipeline-backend/lib/stage-definition"
	stageprogresshandler "recruit-pipeline-backend/lib/stage-progress"
	statusdefinitionhandler "recruit-pipeline-backend/lib/status-definition"
	taskdefinitionhandler "recruit-pipeline-backend/lib/task-definition"
	taskinstancehandler "recruit-pipeline-backend/lib/task-instance"
	taskreminderworker "recruit-pipeline-backend/lib/task-reminder-worker"
	transitionrulehandler "recruit-pipeline-backend/lib/transition-rule"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	applicant.NewHandler()
	stagedefinitionhandler.NewHandler()
	statusdefinitionhandler.NewHandler()
	taskdefinitionhandler.NewHandler()
	taskinstancehandler.NewHandler()
	// правила перехода используются трекером этапов
	transitionrulehandler.NewHandler()
	stageprogresshandler.NewHandler()
	xlsexport.NewHandler()
	pipelinereport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача напоминаний кандидатам по просроченным задачам этапов
	taskreminderworker.StartWorker(ctx)
}
