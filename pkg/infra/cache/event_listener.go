package cache

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
)

// EventHandler decodes one envelope payload and runs its subscriber. The
// closure form keeps the decode typed, so dispatch needs no reflection
// beyond the registry lookup.
type EventHandler func(ctx context.Context, payload json.RawMessage) error

type EventListener interface {
	Listen(ctx context.Context, channels ...channel.Channel)
	Register(eventType reflect.Type, handler EventHandler)
}
