package events

import (
	"context"
	"encoding/json"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher publishes JSON encoded payloads on a Redis pub/sub channel.
// Each publish runs in its own goroutine so callers never wait on Redis.
type RedisPublisher struct {
	options
	client  redisPublisher
	channel string
	wg      sync.WaitGroup
}

var _ vitalset.Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher publishes on channel, or DefaultTopic when it is empty.
func NewRedisPublisher(client redisPublisher, channel string, opts ...Option) *RedisPublisher {
	if channel == "" {
		channel = DefaultTopic
	}
	return &RedisPublisher{
		options: newOptions("redis_publisher", opts),
		client:  client,
		channel: channel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, payload vitalset.PayloadRequest) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.report(pkgerrors.Wrap(err, "encode payload"))
		return
	}

	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.client.Publish(ctx, p.channel, value).Err()
		if err != nil {
			err = pkgerrors.Wrapf(err, "publish to %s", p.channel)
		}
		p.report(err)
	}()
}

func (p *RedisPublisher) report(err error) {
	if err != nil {
		p.logger.WithError(err).WithField("channel", p.channel).Error("failed to publish payload")
	}
	p.recorder.EventPublished(BackendRedis, err)
}

// Close waits for in-flight publishes. The Redis client is owned by the caller.
func (p *RedisPublisher) Close() error {
	p.wg.Wait()
	return nil
}
