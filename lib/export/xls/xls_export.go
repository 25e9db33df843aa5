package xlsexport

import (
	"bytes"
	"fmt"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportPipelineReport(rows []pipelineapimodels.PipelineReportRow) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const reportSheetName = "Этапы подбора"

var pipelineHeaders = []string{"ФИО", "Контакты", "Этап", "Статус", "Дата начала", "Дата завершения", "Оценка", "Комментарий"}

var progressStatusNames = map[models.ProgressStatus]string{
	models.ProgressStatusPending:    "Ожидает",
	models.ProgressStatusInProgress: "В процессе",
	models.ProgressStatusCompleted:  "Завершен",
	models.ProgressStatusFailed:     "Не пройден",
	models.ProgressStatusSkipped:    "Пропущен",
}

func (i impl) ExportPipelineReport(rows []pipelineapimodels.PipelineReportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, pipelineHeaders, 25)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(rows) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(pipelineHeaders), row+len(rows)); err != nil {
			return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
		}
		if _, err = writePipelineData(f, sheet, rows, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, reportSheetName); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа в xlsx")
	}
	return f.WriteToBuffer()
}

func writePipelineData(f *excelize.File, sheet string, rows []pipelineapimodels.PipelineReportRow, row int) (int, error) {
	for _, item := range rows {
		row++
		values := []interface{}{
			item.ApplicantFIO,
			fmt.Sprintf("%v\r%v", item.Phone, item.Email),
			item.StageName,
			ProgressStatusName(item.Status),
			formatDate(item.StartedAt),
			formatDate(item.CompletedAt),
			"",
			item.Notes,
		}
		if item.Score != nil {
			values[6] = *item.Score
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func ProgressStatusName(status models.ProgressStatus) string {
	if name, ok := progressStatusNames[status]; ok {
		return name
	}
	return string(status)
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.Format("02.01.2006")
}
