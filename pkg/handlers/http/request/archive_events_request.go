package request

import "fmt"

type ArchiveEventsRequest struct {
	OlderThanDays int `json:"older_than_days"`
}

func (r *ArchiveEventsRequest) Validate() error {
	if r.OlderThanDays < 0 {
		return fmt.Errorf("older_than_days must not be negative")
	}
	return nil
}
