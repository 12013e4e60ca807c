package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/honeyguard/honeygate/pkg/config"
)

const (
	DefaultTrackingWindow          = 24 * time.Hour
	DefaultRepeatOffenderThreshold = 3

	sightingsKeyPattern = "fp:%s:sightings"
	triggersKeyPattern  = "fp:%s:triggers"
)

// Activity is what the tracker knows about a source inside the current
// window.
type Activity struct {
	Sightings      int64
	Triggers       int64
	RepeatOffender bool
}

//go:generate mockery --name=Tracker --dir=. --output=mocks/ --filename=tracker_mock.go --case=underscore --with-expecter
type Tracker interface {
	Track(ctx context.Context, fp Fingerprint, triggered bool) (*Activity, error)
	Activity(ctx context.Context, fp Fingerprint) (*Activity, error)
}

type tracker struct {
	redis     *redis.Client
	window    time.Duration
	threshold int
}

func NewTracker(redis *redis.Client, cfg config.DetectionConfig) Tracker {
	window := cfg.TrackingWindow
	if window <= 0 {
		window = DefaultTrackingWindow
	}
	threshold := cfg.RepeatOffenderThreshold
	if threshold <= 0 {
		threshold = DefaultRepeatOffenderThreshold
	}
	return &tracker{
		redis:     redis,
		window:    window,
		threshold: threshold,
	}
}

// Track records one sighting of the source, plus a trigger when the event
// fired a detector. Counters share the sliding window; the window restarts
// on every sighting, which is the behavior we want for an active offender.
func (t *tracker) Track(ctx context.Context, fp Fingerprint, triggered bool) (*Activity, error) {
	id := fp.ID()
	sightingsKey := fmt.Sprintf(sightingsKeyPattern, id)
	triggersKey := fmt.Sprintf(triggersKeyPattern, id)

	pipe := t.redis.TxPipeline()

	sightingsCmd := pipe.Incr(ctx, sightingsKey)
	pipe.Expire(ctx, sightingsKey, t.window)

	var triggersIncrCmd *redis.IntCmd
	var triggersGetCmd *redis.StringCmd
	if triggered {
		triggersIncrCmd = pipe.Incr(ctx, triggersKey)
		pipe.Expire(ctx, triggersKey, t.window)
	} else {
		triggersGetCmd = pipe.Get(ctx, triggersKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	activity := &Activity{}
	activity.Sightings, _ = sightingsCmd.Result()
	if triggered {
		activity.Triggers, _ = triggersIncrCmd.Result()
	} else if count, err := triggersGetCmd.Int64(); err == nil {
		activity.Triggers = count
	}
	activity.RepeatOffender = activity.Triggers >= int64(t.threshold)

	return activity, nil
}

// Activity reads the counters without touching them.
func (t *tracker) Activity(ctx context.Context, fp Fingerprint) (*Activity, error) {
	id := fp.ID()

	pipe := t.redis.Pipeline()
	sightingsCmd := pipe.Get(ctx, fmt.Sprintf(sightingsKeyPattern, id))
	triggersCmd := pipe.Get(ctx, fmt.Sprintf(triggersKeyPattern, id))

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	activity := &Activity{}
	if count, err := sightingsCmd.Int64(); err == nil {
		activity.Sightings = count
	}
	if count, err := triggersCmd.Int64(); err == nil {
		activity.Triggers = count
	}
	activity.RepeatOffender = activity.Triggers >= int64(t.threshold)

	return activity, nil
}
