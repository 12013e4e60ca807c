package alert

import (
	"context"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// Message is one alert ready for delivery. Subject and Body are rendered
// once by the dispatcher; channels that speak a structured protocol use the
// event itself.
type Message struct {
	Subject string
	Body    string
	Event   *trapevent.TrapEvent
}

// Channel delivers alert messages somewhere operators look. A configured
// channel is built from its base prototype via WithSettings.
type Channel interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Channel, error)
	Send(ctx context.Context, msg *Message) error
	Close()
}
