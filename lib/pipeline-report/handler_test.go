package pipelinereport

import (
	"bytes"
	applicantstore "recruit-pipeline-backend/lib/applicant/store"
	"recruit-pipeline-backend/lib/errs"
	stagedefinitionstore "recruit-pipeline-backend/lib/stage-definition/store"
	stageprogressstore "recruit-pipeline-backend/lib/stage-progress/store"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stageStoreMock struct {
	stagedefinitionstore.Provider
	stages map[string]dbmodels.StageDefinition
}

func (s stageStoreMock) GetByID(id string) (*dbmodels.StageDefinition, error) {
	rec, ok := s.stages[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type progressStoreMock struct {
	stageprogressstore.Provider
	list []dbmodels.StageProgress
}

func (s progressStoreMock) ListByStage(stageID string) ([]dbmodels.StageProgress, error) {
	result := []dbmodels.StageProgress{}
	for _, rec := range s.list {
		if rec.StageID == stageID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (s progressStoreMock) ListByApplicant(applicantID string) ([]dbmodels.StageProgress, error) {
	result := []dbmodels.StageProgress{}
	for _, rec := range s.list {
		if rec.ApplicantID == applicantID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type applicantStoreMock struct {
	applicantstore.Provider
	applicants map[string]dbmodels.Applicant
	requested  []string
}

func (s *applicantStoreMock) GetByID(id string) (*dbmodels.Applicant, error) {
	rec, ok := s.applicants[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *applicantStoreMock) GetByIDs(ids []string) ([]dbmodels.Applicant, error) {
	s.requested = ids
	result := []dbmodels.Applicant{}
	for _, id := range ids {
		if rec, ok := s.applicants[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

type xlsMock struct {
	rows []pipelineapimodels.PipelineReportRow
	err  error
}

func (x *xlsMock) ExportPipelineReport(rows []pipelineapimodels.PipelineReportRow) (*bytes.Buffer, error) {
	x.rows = rows
	if x.err != nil {
		return nil, x.err
	}
	return bytes.NewBufferString("xlsx"), nil
}

func TestPipelineReport(t *testing.T) {
	score := 90.0
	stageStore := stageStoreMock{stages: map[string]dbmodels.StageDefinition{
		"stage-1": {BaseModel: dbmodels.BaseModel{ID: "stage-1"}, Name: "first_interview", DisplayName: "Первое собеседование"},
	}}
	progressStore := progressStoreMock{list: []dbmodels.StageProgress{
		{BaseModel: dbmodels.BaseModel{ID: "p-1"}, ApplicantID: "applicant-1", StageID: "stage-1", Status: models.ProgressStatusFailed},
		{BaseModel: dbmodels.BaseModel{ID: "p-2"}, ApplicantID: "applicant-1", StageID: "stage-1", Status: models.ProgressStatusCompleted, Score: &score},
		{BaseModel: dbmodels.BaseModel{ID: "p-3"}, ApplicantID: "applicant-2", StageID: "stage-1", Status: models.ProgressStatusInProgress},
		{BaseModel: dbmodels.BaseModel{ID: "p-4"}, ApplicantID: "applicant-1", StageID: "stage-0", Status: models.ProgressStatusCompleted},
	}}
	applicants := map[string]dbmodels.Applicant{
		"applicant-1": {BaseModel: dbmodels.BaseModel{ID: "applicant-1"}, FirstName: "Иван", LastName: "Иванов", Email: "ivanov@example.com"},
	}

	t.Run(`stage report`, func(t *testing.T) {
		applicantStore := &applicantStoreMock{applicants: applicants}
		xls := &xlsMock{}
		instance := NewInstance(stageStore, progressStore, applicantStore, xls, nil)

		buf, err := instance.StageReport("stage-1")
		require.Nil(t, err)
		require.Equal(t, "xlsx", buf.String())
		require.Equal(t, []string{"applicant-1", "applicant-2"}, applicantStore.requested)
		require.Len(t, xls.rows, 3)
		require.Equal(t, "Иванов Иван", xls.rows[0].ApplicantFIO)
		require.Equal(t, "Первое собеседование", xls.rows[0].StageName)
		require.Equal(t, models.ProgressStatusFailed, xls.rows[0].Status)
		require.Equal(t, &score, xls.rows[1].Score)
		require.Equal(t, "", xls.rows[2].ApplicantFIO)
	})

	t.Run(`stage report errors`, func(t *testing.T) {
		applicantStore := &applicantStoreMock{applicants: applicants}
		instance := NewInstance(stageStore, progressStore, applicantStore, &xlsMock{}, nil)
		_, err := instance.StageReport("unknown")
		require.True(t, errs.IsNotFound(err))

		instance = NewInstance(stageStore, progressStore, applicantStore, &xlsMock{err: errors.New("excel")}, nil)
		_, err = instance.StageReport("stage-1")
		var dependencyErr *errs.DependencyError
		require.ErrorAs(t, err, &dependencyErr)
	})

	t.Run(`progress sheet`, func(t *testing.T) {
		var sheet pipelineapimodels.ProgressSheetData
		pdf := func(data pipelineapimodels.ProgressSheetData) ([]byte, error) {
			sheet = data
			return []byte("pdf"), nil
		}
		instance := NewInstance(stageStore, progressStore, &applicantStoreMock{applicants: applicants}, &xlsMock{}, pdf)

		file, err := instance.ProgressSheet("applicant-1")
		require.Nil(t, err)
		require.Equal(t, []byte("pdf"), file)
		require.Equal(t, "Иванов Иван", sheet.ApplicantFIO)
		require.Len(t, sheet.History, 3)
		require.Equal(t, "p-4", sheet.History[2].ID)

		_, err = instance.ProgressSheet("applicant-2")
		require.True(t, errs.IsNotFound(err))
	})
}
