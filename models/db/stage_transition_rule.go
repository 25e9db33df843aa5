package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"recruit-pipeline-backend/models"
)

type StageTransitionRule struct {
	BaseModel
	FromStageID     string               `gorm:"type:varchar(36);index:idx_transition_rule_pair"`
	ToStageID       string               `gorm:"type:varchar(36);index:idx_transition_rule_pair"`
	ConditionType   models.ConditionType `gorm:"type:varchar(50)"`
	ConditionConfig ConditionConfig      `gorm:"type:jsonb"`
}

type ConditionConfig struct {
	MinScore   *float64   `json:"minScore,omitempty"`
	Extensions Extensions `json:"extensions,omitempty"`
}

func (c ConditionConfig) Value() (driver.Value, error) {
	valueString, err := json.Marshal(c)
	return string(valueString), err
}

func (c *ConditionConfig) Scan(value any) error {
	return scanJSON(value, c)
}
