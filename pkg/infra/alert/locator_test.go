package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/alert"
)

// mockChannel is a test mock for alert.Channel
type mockChannel struct {
	name                string
	validateErr         error
	withSettingsErr     error
	withSettingsChannel alert.Channel
}

func newMockChannel(name string) *mockChannel {
	return &mockChannel{name: name}
}

func (m *mockChannel) Name() string {
	return m.name
}

func (m *mockChannel) ValidateConfig(settings map[string]interface{}) error {
	return m.validateErr
}

func (m *mockChannel) WithSettings(settings map[string]interface{}) (alert.Channel, error) {
	if m.withSettingsErr != nil {
		return nil, m.withSettingsErr
	}
	if m.withSettingsChannel != nil {
		return m.withSettingsChannel, nil
	}
	return m, nil
}

func (m *mockChannel) Send(ctx context.Context, msg *alert.Message) error {
	return nil
}

func (m *mockChannel) Close() {}

func TestNewChannelLocator_NoOptions(t *testing.T) {
	locator := NewChannelLocator()

	assert.NotNil(t, locator)
	assert.NotNil(t, locator.channels)
	assert.Empty(t, locator.channels)
}

func TestNewChannelLocator_WithChannel(t *testing.T) {
	email := newMockChannel("email")
	webhook := newMockChannel("webhook")

	locator := NewChannelLocator(
		WithChannel("email", email),
		WithChannel("webhook", webhook),
	)

	assert.Len(t, locator.channels, 2)
	assert.Equal(t, email, locator.channels["email"])
	assert.Equal(t, webhook, locator.channels["webhook"])
}

func TestGetChannel_Success(t *testing.T) {
	configured := newMockChannel("email")
	base := newMockChannel("email")
	base.withSettingsChannel = configured

	locator := NewChannelLocator(
		WithChannel("email", base),
	)

	cfg := config.ChannelConfig{
		Name: "email",
		Settings: map[string]interface{}{
			"host": "smtp.example.com",
		},
	}

	result, err := locator.GetChannel(cfg)

	assert.NoError(t, err)
	assert.Equal(t, configured, result)
}

func TestGetChannel_UnknownChannel(t *testing.T) {
	locator := NewChannelLocator()

	result, err := locator.GetChannel(config.ChannelConfig{Name: "pager"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel: pager")
}

func TestGetChannel_ValidationError(t *testing.T) {
	channel := newMockChannel("email")
	channel.validateErr = errors.New("smtp host is required")

	locator := NewChannelLocator(
		WithChannel("email", channel),
	)

	result, err := locator.GetChannel(config.ChannelConfig{Name: "email"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "smtp host is required", err.Error())
}

func TestGetChannel_WithSettingsError(t *testing.T) {
	channel := newMockChannel("email")
	channel.withSettingsErr = errors.New("failed to build smtp client")

	locator := NewChannelLocator(
		WithChannel("email", channel),
	)

	result, err := locator.GetChannel(config.ChannelConfig{Name: "email"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "failed to build smtp client", err.Error())
}

func TestValidateChannel_Success(t *testing.T) {
	locator := NewChannelLocator(
		WithChannel("email", newMockChannel("email")),
	)

	err := locator.ValidateChannel(config.ChannelConfig{Name: "email"})

	assert.NoError(t, err)
}

func TestValidateChannel_UnknownChannel(t *testing.T) {
	locator := NewChannelLocator()

	err := locator.ValidateChannel(config.ChannelConfig{Name: "pager"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel: pager")
}
