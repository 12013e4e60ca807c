package cache

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
)

type redisEventPublisher struct {
	client *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) EventPublisher {
	return &redisEventPublisher{
		client: client,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ch channel.Channel, ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	envelope := RedisMessage{
		Type:  ev.Type(),
		Event: b,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, string(ch), data).Err()
}
