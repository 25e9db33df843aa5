package pdfexport

import (
	"bytes"
	"fmt"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const fontFamily = "SheetFont"

// FontConfig шрифты листа. Названия этапов бывают на японском, шрифт должен содержать CJK глифы (например Noto Sans JP).
type FontConfig struct {
	Dir     string
	Regular string
	Bold    string
}

var progressSheetColumns = []struct {
	title string
	width float64
}{
	{"Этап", 60},
	{"Статус", 35},
	{"Начало", 30},
	{"Завершение", 30},
	{"Оценка", 25},
}

var progressStatusNames = map[models.ProgressStatus]string{
	models.ProgressStatusPending:    "Ожидает",
	models.ProgressStatusInProgress: "В процессе",
	models.ProgressStatusCompleted:  "Завершен",
	models.ProgressStatusFailed:     "Не пройден",
	models.ProgressStatusSkipped:    "Пропущен",
}

// ProgressSheetGenerator лист прохождения этапов подбора кандидатом
func ProgressSheetGenerator(fonts FontConfig) func(data pipelineapimodels.ProgressSheetData) ([]byte, error) {
	return func(data pipelineapimodels.ProgressSheetData) ([]byte, error) {
		return generateProgressSheet(fonts, data)
	}
}

func generateProgressSheet(fonts FontConfig, data pipelineapimodels.ProgressSheetData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("generateProgressSheet panic recover: %v", r)
		}
	}()
	if fonts.Bold == "" {
		fonts.Bold = fonts.Regular
	}
	pdf := fpdf.New("P", "mm", "A4", fonts.Dir)
	pdf.AddUTF8Font(fontFamily, "", fonts.Regular)
	pdf.AddUTF8Font(fontFamily, "B", fonts.Bold)
	if pdf.Error() != nil {
		return nil, errors.Wrapf(pdf.Error(), "ошибка загрузки шрифта %v", fonts.Regular)
	}
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	_, lineHt := pdf.GetFontSize()
	pdf.CellFormat(0, lineHt+2, data.ApplicantFIO, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	_, lineHt = pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	html.Write(lineHt+1, fmt.Sprintf("Email: %v<br>Телефон: %v<br>Дата формирования: %v<br>",
		data.Email, data.Phone, time.Now().Format("02.01.2006")))
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "B", 11)
	for _, col := range progressSheetColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 10)
	for _, item := range data.History {
		score := ""
		if item.Score != nil {
			score = fmt.Sprintf("%g", *item.Score)
		}
		stageName := item.StageName
		if stageName == "" {
			stageName = item.StageID
		}
		values := []string{
			stageName,
			statusName(item.Status),
			formatDate(item.StartedAt),
			formatDate(item.CompletedAt),
			score,
		}
		for idx, col := range progressSheetColumns {
			pdf.CellFormat(col.width, 7, values[idx], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statusName(status models.ProgressStatus) string {
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
