package types

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// StringArray maps a []string onto a postgres text[] column.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return pq.Array([]string(s)).Value()
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var strs []string
	if err := pq.Array(&strs).Scan(value); err != nil {
		return fmt.Errorf("failed to scan string array: %w", err)
	}

	out := make([]string, 0, len(strs))
	for _, str := range strs {
		out = append(out, strings.TrimSpace(str))
	}

	*s = out
	return nil
}

// Contains reports whether the array holds the given value.
func (s StringArray) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}
