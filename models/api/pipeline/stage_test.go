package pipelineapimodels

import (
	dbmodels "recruit-pipeline-backend/models/db"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestStageDefinitionUpdateMap(t *testing.T) {
	t.Run(`session types stored as text array`, func(t *testing.T) {
		updMap := StageDefinitionUpdate{SessionTypes: []string{"online", "offline"}}.UpdateMap()
		value, ok := updMap["session_types"].(pq.StringArray)
		require.True(t, ok)
		require.Equal(t, pq.StringArray{"online", "offline"}, value)

		updMap = StageDefinitionUpdate{SessionTypes: []string{"online"}}.UpdateMap()
		require.Equal(t, pq.StringArray{"online"}, updMap["session_types"])
	})

	t.Run(`only supplied fields`, func(t *testing.T) {
		name := "first_interview"
		updMap := StageDefinitionUpdate{
			Name:       &name,
			Extensions: map[string]string{"room": "A1"},
		}.UpdateMap()
		require.Len(t, updMap, 2)
		require.Equal(t, name, updMap["name"])
		require.Equal(t, dbmodels.Extensions{"room": "A1"}, updMap["extensions"])
		require.NotContains(t, updMap, "session_types")
	})
}
