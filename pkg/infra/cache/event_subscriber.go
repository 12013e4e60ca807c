package cache

import (
	"context"
)

// EventSubscriber handles one event type arriving over the redis channel.
// The listener picks the subscriber by the envelope's type string, so a
// subscriber never sees an event it did not register for.
type EventSubscriber[T any] interface {
	OnEvent(ctx context.Context, ev T) error
}
