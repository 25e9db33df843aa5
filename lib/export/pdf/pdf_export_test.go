package pdfexport

import (
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressSheet(t *testing.T) {
	data := pipelineapimodels.ProgressSheetData{
		ApplicantFIO: "山田 太郎",
		History: []pipelineapimodels.StageProgressView{
			{StageID: "stage-1", StageName: "書類選考"},
		},
	}

	t.Run(`missing font`, func(t *testing.T) {
		generate := ProgressSheetGenerator(FontConfig{Dir: t.TempDir(), Regular: "NotoSansJP-Regular.ttf"})
		file, err := generate(data)
		require.NotNil(t, err)
		require.Nil(t, file)
	})

	t.Run(`status names`, func(t *testing.T) {
		require.Equal(t, "Завершен", statusName("completed"))
		require.Equal(t, "archived", statusName("archived"))
	})
}
