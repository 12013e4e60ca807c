package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
)

func TestRedisEventPublisher_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	publisher := NewRedisEventPublisher(client)

	ev := event.TrapEventRecordedEvent{Event: trapevent.TrapEvent{
		IPAddress: "203.0.113.9",
		Path:      "/wp-login.php",
		Method:    "POST",
		Profile:   "wordpress",
	}}

	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	envelope, err := json.Marshal(RedisMessage{Type: ev.Type(), Event: payload})
	require.NoError(t, err)

	mock.ExpectPublish(string(channel.TrapEventsChannel), envelope).SetVal(1)

	require.NoError(t, publisher.Publish(context.Background(), channel.TrapEventsChannel, ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisEventPublisher_Publish_RedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	publisher := NewRedisEventPublisher(client)

	ev := event.TrapEventRecordedEvent{Event: trapevent.TrapEvent{IPAddress: "203.0.113.9"}}

	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	envelope, err := json.Marshal(RedisMessage{Type: ev.Type(), Event: payload})
	require.NoError(t, err)

	mock.ExpectPublish(string(channel.TrapEventsChannel), envelope).
		SetErr(errors.New("connection refused"))

	err = publisher.Publish(context.Background(), channel.TrapEventsChannel, ev)
	require.Error(t, err)
}
