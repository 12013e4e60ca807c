package event

import "github.com/honeyguard/honeygate/pkg/domain/trapevent"

// TrapEventRecordedEvent carries the full persisted event across process
// boundaries so admin replicas can serve the live feed without a database
// round trip.
type TrapEventRecordedEvent struct {
	Event trapevent.TrapEvent `json:"event"`
}

func (e TrapEventRecordedEvent) Type() string {
	return TrapEventRecordedEventType
}
