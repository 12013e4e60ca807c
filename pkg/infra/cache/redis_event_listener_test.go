package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
)

type capturingSubscriber struct {
	mu     sync.Mutex
	events []event.TrapEventRecordedEvent
}

func (s *capturingSubscriber) OnEvent(_ context.Context, ev event.TrapEventRecordedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *capturingSubscriber) received() []event.TrapEventRecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.TrapEventRecordedEvent(nil), s.events...)
}

func testListener(t *testing.T) (*redisEventListener, *capturingSubscriber) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	listener := NewRedisEventListener(logger, nil)
	subscriber := &capturingSubscriber{}
	RegisterEventSubscriber[event.TrapEventRecordedEvent](listener, subscriber)

	concrete, ok := listener.(*redisEventListener)
	require.True(t, ok)
	return concrete, subscriber
}

func TestRedisEventListener_HandleMessage_DispatchesToSubscriber(t *testing.T) {
	listener, subscriber := testListener(t)

	ev := event.TrapEventRecordedEvent{Event: trapevent.TrapEvent{
		IPAddress: "198.51.100.7",
		Path:      "/admin/login/",
		Profile:   "django",
		RiskScore: 80,
	}}
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	envelope, err := json.Marshal(RedisMessage{Type: ev.Type(), Event: payload})
	require.NoError(t, err)

	listener.handleMessage(context.Background(), string(envelope))

	received := subscriber.received()
	require.Len(t, received, 1)
	assert.Equal(t, "198.51.100.7", received[0].Event.IPAddress)
	assert.Equal(t, 80, received[0].Event.RiskScore)
}

func TestRedisEventListener_HandleMessage_UnknownEventType(t *testing.T) {
	listener, subscriber := testListener(t)

	envelope, err := json.Marshal(RedisMessage{Type: "NoSuchEvent", Event: json.RawMessage(`{}`)})
	require.NoError(t, err)

	listener.handleMessage(context.Background(), string(envelope))

	assert.Empty(t, subscriber.received())
}

func TestRedisEventListener_HandleMessage_MalformedPayload(t *testing.T) {
	listener, subscriber := testListener(t)

	listener.handleMessage(context.Background(), "{not json")

	assert.Empty(t, subscriber.received())
}

func TestRedisEventListener_HandleMessage_UndecodableEvent(t *testing.T) {
	listener, subscriber := testListener(t)

	envelope, err := json.Marshal(RedisMessage{
		Type:  event.TrapEventRecordedEventType,
		Event: json.RawMessage(`"not an object"`),
	})
	require.NoError(t, err)

	listener.handleMessage(context.Background(), string(envelope))

	assert.Empty(t, subscriber.received())
}
