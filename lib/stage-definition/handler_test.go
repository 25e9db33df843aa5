package stagedefinitionhandler

import (
	"fmt"
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/models"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"
	dbmodels "recruit-pipeline-backend/models/db"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	list []dbmodels.StageDefinition
}

func (m *memStore) Create(rec dbmodels.StageDefinition) (*dbmodels.StageDefinition, error) {
	rec.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(m.list)+1)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.list = append(m.list, rec)
	return &rec, nil
}

func (m *memStore) GetByID(id string) (*dbmodels.StageDefinition, error) {
	for _, rec := range m.list {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetActiveByName(name string) (*dbmodels.StageDefinition, error) {
	for _, rec := range m.list {
		if rec.IsActive && rec.Name == name {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(activeOnly bool) ([]dbmodels.StageDefinition, error) {
	result := []dbmodels.StageDefinition{}
	for _, rec := range m.list {
		if activeOnly && !rec.IsActive {
			continue
		}
		result = append(result, rec)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (m *memStore) Update(id string, updMap map[string]interface{}, expectedVersion *int) (bool, error) {
	for k := range m.list {
		rec := &m.list[k]
		if rec.ID != id {
			continue
		}
		if expectedVersion != nil && rec.ConfigVersion != *expectedVersion {
			return false, nil
		}
		if value, ok := updMap["name"]; ok {
			rec.Name = value.(string)
		}
		if value, ok := updMap["display_name"]; ok {
			rec.DisplayName = value.(string)
		}
		if value, ok := updMap["is_active"]; ok {
			rec.IsActive = value.(bool)
		}
		rec.ConfigVersion++
		return true, nil
	}
	return false, nil
}

func (m *memStore) MaxOrder() (int, error) {
	result := 0
	for _, rec := range m.list {
		if rec.SortOrder > result {
			result = rec.SortOrder
		}
	}
	return result, nil
}

func (m *memStore) UpdateOrder(items []pipelineapimodels.OrderItem) error {
	for _, item := range items {
		found := false
		for k := range m.list {
			if m.list[k].ID == item.ID {
				m.list[k].SortOrder = item.SortOrder
				found = true
			}
		}
		if !found {
			return errs.NewNotFound("этап", item.ID)
		}
	}
	return nil
}

func stageData(name string, group models.StageGroup) pipelineapimodels.StageDefinitionData {
	return pipelineapimodels.StageDefinitionData{
		Name:                     name,
		DisplayName:              name,
		StageGroup:               group,
		EstimatedDurationMinutes: 60,
	}
}

func TestStageDefinition(t *testing.T) {
	t.Run(`create and get`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		created, err := i.Create(stageData(dbmodels.DocumentScreenStage, models.StageGroupSelection))
		require.Nil(t, err)
		require.Equal(t, 1, created.SortOrder)
		require.Equal(t, 1, created.ConfigVersion)
		require.True(t, created.IsActive)
		require.Equal(t, models.StatusTemplateDocument, created.StatusTemplate)

		second, err := i.Create(stageData("group_interview", models.StageGroupSelection))
		require.Nil(t, err)
		require.Equal(t, 2, second.SortOrder)
		require.Equal(t, models.StatusTemplateInterview, second.StatusTemplate)

		view, err := i.GetByID(created.ID)
		require.Nil(t, err)
		require.Equal(t, created.Name, view.Name)
		require.Equal(t, created.DisplayName, view.DisplayName)
		require.Equal(t, created.StageGroup, view.StageGroup)

		list, err := i.ListActive()
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, created.ID, list[0].ID)
	})

	t.Run(`validation collects all messages`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		_, err := i.Create(pipelineapimodels.StageDefinitionData{
			StageGroup:               "unknown",
			EstimatedDurationMinutes: 2000,
			RequiresSession:          true,
		})
		require.True(t, errs.IsValidation(err))
		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Len(t, validationErr.Messages, 5)
	})

	t.Run(`name is unique among active stages`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		created, err := i.Create(stageData(dbmodels.FirstInterviewStage, models.StageGroupSelection))
		require.Nil(t, err)

		_, err = i.Create(stageData(dbmodels.FirstInterviewStage, models.StageGroupSelection))
		require.True(t, errs.IsValidation(err))

		require.Nil(t, i.Delete(created.ID))
		_, err = i.Create(stageData(dbmodels.FirstInterviewStage, models.StageGroupSelection))
		require.Nil(t, err)

		all, err := i.ListAll()
		require.Nil(t, err)
		require.Len(t, all, 2)
		active, err := i.ListActive()
		require.Nil(t, err)
		require.Len(t, active, 1)
	})

	t.Run(`update checks config version`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		created, err := i.Create(stageData(dbmodels.OfferStage, models.StageGroupSelection))
		require.Nil(t, err)

		name := "内定通知"
		version := 1
		err = i.Update(created.ID, pipelineapimodels.StageDefinitionUpdate{DisplayName: &name, ConfigVersion: &version})
		require.Nil(t, err)

		err = i.Update(created.ID, pipelineapimodels.StageDefinitionUpdate{DisplayName: &name, ConfigVersion: &version})
		require.True(t, errs.IsConflict(err))

		view, err := i.GetByID(created.ID)
		require.Nil(t, err)
		require.Equal(t, name, view.DisplayName)
		require.Equal(t, 2, view.ConfigVersion)
	})

	t.Run(`not found`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		_, err := i.GetByID("00000000-0000-0000-0000-000000000099")
		require.True(t, errs.IsNotFound(err))
		err = i.Delete("00000000-0000-0000-0000-000000000099")
		require.True(t, errs.IsNotFound(err))
	})

	t.Run(`reorder`, func(t *testing.T) {
		i := NewInstance(&memStore{})
		first, err := i.Create(stageData(dbmodels.CompanyBriefingStage, models.StageGroupInternship))
		require.Nil(t, err)
		second, err := i.Create(stageData(dbmodels.DocumentScreenStage, models.StageGroupSelection))
		require.Nil(t, err)

		err = i.Reorder([]pipelineapimodels.OrderItem{{ID: first.ID, SortOrder: 2}, {ID: first.ID, SortOrder: 3}})
		require.True(t, errs.IsValidation(err))

		err = i.Reorder([]pipelineapimodels.OrderItem{{ID: first.ID, SortOrder: 2}, {ID: second.ID, SortOrder: 1}})
		require.Nil(t, err)
		list, err := i.ListActive()
		require.Nil(t, err)
		require.Equal(t, second.ID, list[0].ID)
		require.Equal(t, first.ID, list[1].ID)

		err = i.Reorder([]pipelineapimodels.OrderItem{{ID: "00000000-0000-0000-0000-000000000099", SortOrder: 1}})
		require.True(t, errs.IsNotFound(err))
	})
}
