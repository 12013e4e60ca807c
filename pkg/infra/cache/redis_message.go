package cache

import (
	"encoding/json"
)

// RedisMessage is the envelope published on the events channel. Type routes
// the payload to a subscriber; Event stays raw until the subscriber's
// concrete type is known.
type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}
