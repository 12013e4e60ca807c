package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// Cache wraps the shared redis client and the process-local TTL maps. Redis
// is the layer the trap and admin replicas share; the TTL maps are each
// process's own fast layer, registered once at boot and fetched by name.
type Cache struct {
	client  *redis.Client
	ttlMaps sync.Map
}

const (
	StatsKeyPattern = "stats:%s"
	EventKeyPattern = "event:%s"

	StatsTTLName        = "stats"
	PathActivityTTLName = "path_activity"

	pingTimeout = 5 * time.Second
)

// NewCache connects eagerly. The client itself is lazy, and a honeypot with
// an unreachable redis should fail at boot, not on the first recorded event.
func NewCache(config common.CacheConfig) (*Cache, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{client: client}, nil
}

// InvalidateStats drops every cached aggregate, in this process's memory and
// in redis. Called after deletes and archival, where serving a stale window
// would misreport totals.
func (c *Cache) InvalidateStats(ctx context.Context) error {
	if statsMap := c.GetTTLMap(StatsTTLName); statsMap != nil {
		statsMap.Clear()
	}

	pattern := fmt.Sprintf(StatsKeyPattern, "*")
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("error scanning keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("error deleting keys: %w", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) CreateTTLMap(name string, ttl time.Duration) *common.TTLMap {
	ttlMap := common.NewTTLMap(ttl)
	c.ttlMaps.Store(name, ttlMap)
	return ttlMap
}

func (c *Cache) GetTTLMap(name string) *common.TTLMap {
	value, ok := c.ttlMaps.Load(name)
	if !ok {
		return nil
	}
	ttlMap, _ := value.(*common.TTLMap)
	return ttlMap
}

// SaveStats caches a computed aggregate under its window key. Aggregates go
// to redis with their own TTL; the per-process memory layer is the stats
// provider's concern.
func (c *Cache) SaveStats(ctx context.Context, window string, stats *trapevent.Stats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(StatsKeyPattern, window)
	return c.client.Set(ctx, key, string(statsJSON), common.StatsCacheTTL).Err()
}

func (c *Cache) GetStats(ctx context.Context, window string) (*trapevent.Stats, error) {
	key := fmt.Sprintf(StatsKeyPattern, window)
	res, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	stats := new(trapevent.Stats)
	if err := json.Unmarshal([]byte(res), stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Cache) SaveEvent(ctx context.Context, event *trapevent.TrapEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(EventKeyPattern, event.ID)
	return c.client.Set(ctx, key, string(eventJSON), common.ActivityCacheTTL).Err()
}

func (c *Cache) GetEvent(ctx context.Context, id string) (*trapevent.TrapEvent, error) {
	key := fmt.Sprintf(EventKeyPattern, id)
	res, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	event := new(trapevent.TrapEvent)
	if err := json.Unmarshal([]byte(res), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (c *Cache) DeleteEvent(ctx context.Context, id string) error {
	return c.client.Del(ctx, fmt.Sprintf(EventKeyPattern, id)).Err()
}
