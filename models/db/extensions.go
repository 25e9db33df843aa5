package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// Extensions дополнительные типизированные атрибуты конфигурации, хранятся в jsonb
type Extensions map[string]string

func (e Extensions) Value() (driver.Value, error) {
	if e == nil {
		return "{}", nil
	}
	valueString, err := json.Marshal(e)
	return string(valueString), err
}

func (e *Extensions) Scan(value any) error {
	return scanJSON(value, e)
}

func scanJSON(value any, dest any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("неподдерживаемый тип значения jsonb: %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
