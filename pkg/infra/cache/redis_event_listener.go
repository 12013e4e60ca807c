package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

const reconnectDelay = time.Second

type redisEventListener struct {
	logger   *logrus.Logger
	client   *redis.Client
	handlers map[reflect.Type]EventHandler
	registry map[string]reflect.Type
}

func NewRedisEventListener(logger *logrus.Logger, client *redis.Client) EventListener {
	return &redisEventListener{
		logger:   logger,
		client:   client,
		handlers: make(map[reflect.Type]EventHandler),
		registry: event.Registry,
	}
}

// RegisterEventSubscriber binds a typed subscriber to the listener. The
// decode closure is built here, where T is concrete, so handleMessage never
// has to reflect on subscriber methods.
func RegisterEventSubscriber[T event.Event](listener EventListener, subscriber EventSubscriber[T]) {
	var zero T
	listener.Register(reflect.TypeOf(zero), func(ctx context.Context, payload json.RawMessage) error {
		var evt T
		if err := json.Unmarshal(payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", zero.Type(), err)
		}
		return subscriber.OnEvent(ctx, evt)
	})
}

func (r *redisEventListener) Register(eventType reflect.Type, handler EventHandler) {
	r.handlers[eventType] = handler
}

func (r *redisEventListener) Listen(ctx context.Context, channels ...channel.Channel) {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, string(ch))
	}

	for ctx.Err() == nil {
		err := r.consume(ctx, names)
		if ctx.Err() != nil {
			break
		}

		r.logger.WithError(err).Warn("redis pubsub disconnected, reconnecting in 1s...")
		select {
		case <-ctx.Done():
		case <-time.After(reconnectDelay):
		}
	}
	r.logger.Info("redis pubsub listener shutting down")
}

// consume holds one subscription until the connection drops or ctx ends.
func (r *redisEventListener) consume(ctx context.Context, names []string) error {
	pubSub := r.client.Subscribe(ctx, names...)
	defer func() { _ = pubSub.Close() }()

	if _, err := pubSub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %v: %w", names, err)
	}
	r.logger.WithField("channels", names).Debug("redis pubsub connected")

	// ReceiveMessage blocks on the socket; only Close unblocks it, so a
	// watcher translates ctx cancellation into Close. The stop channel keeps
	// the watcher from outliving this subscription on an ordinary disconnect.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = pubSub.Close()
		case <-stop:
		}
	}()

	for {
		msg, err := pubSub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		r.handleMessage(ctx, msg.Payload)
	}
}

func (r *redisEventListener) handleMessage(ctx context.Context, payload string) {
	var envelope RedisMessage
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.WithError(err).Error("error decoding redis message")
		return
	}

	eventType, ok := r.registry[envelope.Type]
	if !ok {
		r.logger.WithField("event_type", envelope.Type).Warn("unknown event type in redis message")
		return
	}

	handler, ok := r.handlers[eventType]
	if !ok {
		return
	}

	if err := handler(ctx, envelope.Event); err != nil {
		r.logger.WithError(err).WithField("event_type", envelope.Type).Error("event subscriber failed")
	}
}
