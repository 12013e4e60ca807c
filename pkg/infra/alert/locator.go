package alert

import (
	"fmt"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/alert"
)

type ChannelLocator struct {
	channels map[string]alert.Channel
}

func NewChannelLocator(opts ...ChannelLocatorOption) *ChannelLocator {
	cl := &ChannelLocator{
		channels: make(map[string]alert.Channel),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

func (l *ChannelLocator) GetChannel(cfg config.ChannelConfig) (alert.Channel, error) {
	base, ok := l.channels[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown channel: %s", cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	channel, err := base.WithSettings(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (l *ChannelLocator) ValidateChannel(cfg config.ChannelConfig) error {
	base, ok := l.channels[cfg.Name]
	if !ok {
		return fmt.Errorf("unknown channel: %s", cfg.Name)
	}
	return base.ValidateConfig(cfg.Settings)
}
