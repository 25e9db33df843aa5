package pipelinereport

import (
	"bytes"
	"recruit-pipeline-backend/config"
	"recruit-pipeline-backend/db"
	applicantstore "recruit-pipeline-backend/lib/applicant/store"
	"recruit-pipeline-backend/lib/errs"
	pdfexport "recruit-pipeline-backend/lib/export/pdf"
	xlsexport "recruit-pipeline-backend/lib/export/xls"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	stageprogressstore "recruit-pipeline-backend/lib/stage-progress/store"
	initchecker "recruit-pipeline-backend/lib/utils/init-checker"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// StageReport xlsx со всеми кандидатами, проходившими этап
	StageReport(stageID string) (*bytes.Buffer, error)
	// ProgressSheet pdf с историей этапов кандидата
	ProgressSheet(applicantID string) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("xlsexport", xlsexport.Instance)
	Instance = NewInstance(
		stagedefinitionstore.NewInstance(db.DB),
		stageprogressstore.NewInstance(db.DB),
		applicantstore.NewInstance(db.DB),
		xlsexport.Instance,
		pdfexport.ProgressSheetGenerator(pdfexport.FontConfig{
			Dir:     config.Conf.Pdf.FontDir,
			Regular: config.Conf.Pdf.FontRegular,
			Bold:    config.Conf.Pdf.FontBold,
		}),
	)
}

func NewInstance(stageStore stagedefinitionstore.Provider, progressStore stageprogressstore.Provider,
	applicantStore applicantstore.Provider, xls xlsexport.Provider,
	pdf func(data pipelineapimodels.ProgressSheetData) ([]byte, error)) Provider {
	return impl{
		stageStore:     stageStore,
		progressStore:  progressStore,
		applicantStore: applicantStore,
		xls:            xls,
		pdf:            pdf,
	}
}

type impl struct {
	stageStore     stagedefinitionstore.Provider
	progressStore  stageprogressstore.Provider
	applicantStore applicantstore.Provider
	xls            xlsexport.Provider
	pdf            func(data pipelineapimodels.ProgressSheetData) ([]byte, error)
}

func (i impl) StageReport(stageID string) (*bytes.Buffer, error) {
	stage, err := i.stageStore.GetByID(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения этапа")
	}
	if stage == nil {
		return nil, errs.NewNotFound("этап", stageID)
	}
	progressList, err := i.progressStore.ListByStage(stageID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения прохождения этапа")
	}
	applicantIDs := make([]string, 0, len(progressList))
	seen := map[string]bool{}
	for _, rec := range progressList {
		if !seen[rec.ApplicantID] {
			seen[rec.ApplicantID] = true
			applicantIDs = append(applicantIDs, rec.ApplicantID)
		}
	}
	applicantList, err := i.applicantStore.GetByIDs(applicantIDs)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения кандидатов")
	}
	applicantMap := make(map[string]dbmodels.Applicant, len(applicantList))
	for _, rec := range applicantList {
		applicantMap[rec.ID] = rec
	}
	rows := make([]pipelineapimodels.PipelineReportRow, 0, len(progressList))
	for _, rec := range progressList {
		row := pipelineapimodels.PipelineReportRow{
			StageName:   stage.DisplayName,
			Status:      rec.Status,
			StartedAt:   rec.StartedAt,
			CompletedAt: rec.CompletedAt,
			Score:       rec.Score,
			Notes:       rec.Notes,
		}
		if applicant, ok := applicantMap[rec.ApplicantID]; ok {
			row.ApplicantFIO = applicant.GetFIO()
			row.Email = applicant.Email
			row.Phone = applicant.Phone
		}
		rows = append(rows, row)
	}
	buf, err := i.xls.ExportPipelineReport(rows)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка формирования отчета по этапу")
	}
	log.
		WithField("stage_id", stageID).
		WithField("row_count", len(rows)).
		Info("сформирован отчет по этапу")
	return buf, nil
}

func (i impl) ProgressSheet(applicantID string) ([]byte, error) {
	applicant, err := i.applicantStore.GetByID(applicantID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения кандидата")
	}
	if applicant == nil {
		return nil, errs.NewNotFound("кандидат", applicantID)
	}
	history, err := i.progressStore.ListByApplicant(applicantID)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения истории этапов")
	}
	data := pipelineapimodels.ProgressSheetData{
		ApplicantFIO: applicant.GetFIO(),
		Email:        applicant.Email,
		Phone:        applicant.Phone,
		CreatedAt:    applicant.CreatedAt,
		History:      make([]pipelineapimodels.StageProgressView, 0, len(history)),
	}
	for _, rec := range history {
		data.History = append(data.History, pipelineapimodels.StageProgressConvert(rec))
	}
	file, err := i.pdf(data)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка формирования листа этапов кандидата")
	}
	return file, nil
}
