package xlsexport

import (
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportPipelineReport(t *testing.T) {
	startedAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	score := 82.5
	rows := []pipelineapimodels.PipelineReportRow{
		{
			ApplicantFIO: "Иванов Иван",
			Email:        "ivanov@example.com",
			Phone:        "+79990000000",
			StageName:    "Собеседование",
			Status:       models.ProgressStatusCompleted,
			StartedAt:    &startedAt,
			Score:        &score,
		},
		{
			ApplicantFIO: "Петров Петр",
			StageName:    "Тест",
			Status:       models.ProgressStatusInProgress,
		},
	}

	t.Run(`report with rows`, func(t *testing.T) {
		buf, err := impl{}.ExportPipelineReport(rows)
		require.Nil(t, err)
		require.NotZero(t, buf.Len())

		f, err := excelize.OpenReader(buf)
		require.Nil(t, err)
		defer f.Close()
		require.Equal(t, []string{reportSheetName}, f.GetSheetList())

		value, err := f.GetCellValue(reportSheetName, "A1")
		require.Nil(t, err)
		require.Equal(t, "ФИО", value)
		value, err = f.GetCellValue(reportSheetName, "A2")
		require.Nil(t, err)
		require.Equal(t, "Иванов Иван", value)
		value, err = f.GetCellValue(reportSheetName, "D2")
		require.Nil(t, err)
		require.Equal(t, "Завершен", value)
		value, err = f.GetCellValue(reportSheetName, "E2")
		require.Nil(t, err)
		require.Equal(t, "05.03.2024", value)
		value, err = f.GetCellValue(reportSheetName, "D3")
		require.Nil(t, err)
		require.Equal(t, "В процессе", value)
		value, err = f.GetCellValue(reportSheetName, "F3")
		require.Nil(t, err)
		require.Equal(t, "", value)
	})

	t.Run(`empty report`, func(t *testing.T) {
		buf, err := impl{}.ExportPipelineReport(nil)
		require.Nil(t, err)
		require.NotZero(t, buf.Len())
	})

	t.Run(`status names`, func(t *testing.T) {
		require.Equal(t, "Пропущен", ProgressStatusName(models.ProgressStatusSkipped))
		require.Equal(t, "archived", ProgressStatusName(models.ProgressStatus("archived")))
	})
}
