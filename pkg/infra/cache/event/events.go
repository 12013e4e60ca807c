package event

import "reflect"

type Event interface {
	Type() string
}

var (
	TrapEventRecordedEventType = "TrapEventRecordedEvent"
)

var Registry = map[string]reflect.Type{
	TrapEventRecordedEventType: reflect.TypeOf(TrapEventRecordedEvent{}),
}
