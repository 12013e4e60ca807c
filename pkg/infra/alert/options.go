package alert

import "github.com/honeyguard/honeygate/pkg/domain/alert"

// ChannelLocatorOption is a function that configures a ChannelLocator
type ChannelLocatorOption func(*ChannelLocator)

// WithChannel registers a channel prototype with the given name
func WithChannel(name string, channel alert.Channel) ChannelLocatorOption {
	return func(cl *ChannelLocator) {
		if cl.channels == nil {
			cl.channels = make(map[string]alert.Channel)
		}
		cl.channels[name] = channel
	}
}
