package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/alert"
	"github.com/honeyguard/honeygate/pkg/domain/export"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type recordingChannel struct {
	name     string
	sendErr  error
	mu       sync.Mutex
	messages []*alert.Message
	received chan struct{}
}

func newRecordingChannel(name string) *recordingChannel {
	return &recordingChannel{
		name:     name,
		received: make(chan struct{}, 16),
	}
}

func (c *recordingChannel) Name() string                                    { return c.name }
func (c *recordingChannel) ValidateConfig(map[string]interface{}) error     { return nil }
func (c *recordingChannel) WithSettings(map[string]interface{}) (alert.Channel, error) {
	return c, nil
}

func (c *recordingChannel) Send(ctx context.Context, msg *alert.Message) error {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.received <- struct{}{}
	return c.sendErr
}

func (c *recordingChannel) Close() {}

func (c *recordingChannel) sent() []*alert.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*alert.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

type recordingExporter struct {
	mu       sync.Mutex
	events   []*trapevent.TrapEvent
	received chan struct{}
}

func newRecordingExporter() *recordingExporter {
	return &recordingExporter{received: make(chan struct{}, 16)}
}

func (e *recordingExporter) Name() string                                { return "recording" }
func (e *recordingExporter) ValidateConfig(map[string]interface{}) error { return nil }

func (e *recordingExporter) Handle(ctx context.Context, event *trapevent.TrapEvent) error {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
	e.received <- struct{}{}
	return nil
}

func (e *recordingExporter) Close() {}

func waitReceived(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestDispatcher_DeliversToChannels(t *testing.T) {
	email := newRecordingChannel("email")
	webhook := newRecordingChannel("webhook")
	event := buildTestEvent()

	d := NewDispatcher(
		logrus.New(),
		config.AlertsConfig{SubjectPrefix: "[test]"},
		[]alert.Channel{email, webhook},
		nil,
	)
	d.StartWorkers(1)
	defer d.Shutdown()

	d.Dispatch(event)

	waitReceived(t, email.received)
	waitReceived(t, webhook.received)

	require.Len(t, email.sent(), 1)
	require.Len(t, webhook.sent(), 1)
	msg := email.sent()[0]
	assert.Equal(t, "[test] - /admin/login/", msg.Subject)
	assert.Same(t, event, msg.Event)
}

func TestDispatcher_ChannelFailureDoesNotBlockOthers(t *testing.T) {
	failing := newRecordingChannel("email")
	failing.sendErr = errors.New("smtp unreachable")
	healthy := newRecordingChannel("webhook")

	d := NewDispatcher(
		logrus.New(),
		config.AlertsConfig{FailSilently: true},
		[]alert.Channel{failing, healthy},
		nil,
	)
	d.StartWorkers(1)
	defer d.Shutdown()

	d.Dispatch(buildTestEvent())

	waitReceived(t, failing.received)
	waitReceived(t, healthy.received)

	assert.Len(t, healthy.sent(), 1)
}

func TestDispatcher_DeliversToExporters(t *testing.T) {
	exporter := newRecordingExporter()
	event := buildTestEvent()

	d := NewDispatcher(
		logrus.New(),
		config.AlertsConfig{},
		nil,
		[]export.Exporter{exporter},
	)
	d.StartWorkers(1)
	defer d.Shutdown()

	d.Dispatch(event)

	waitReceived(t, exporter.received)

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.events, 1)
	assert.Same(t, event, exporter.events[0])
}

func TestDispatcher_DropsAfterShutdown(t *testing.T) {
	channel := newRecordingChannel("email")

	d := NewDispatcher(
		logrus.New(),
		config.AlertsConfig{},
		[]alert.Channel{channel},
		nil,
	)
	d.StartWorkers(1)
	d.Shutdown()

	d.Dispatch(buildTestEvent())

	select {
	case <-channel.received:
		t.Fatal("expected no delivery after shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}
