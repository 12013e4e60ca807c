package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MetadataJSON stores the raw request capture next to the structured columns.
type MetadataJSON map[string]interface{}

func (m MetadataJSON) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, m)
}
