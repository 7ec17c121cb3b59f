package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisJobsKey    = "storefront:queue:jobs"
	redisDelayedKey = "storefront:queue:delayed"
)

// RedisDriver stores jobs in a Redis list so they survive restarts and can be
// shared by multiple worker processes. Delayed jobs sit in a sorted set scored
// by their run-at timestamp until promoted.
type RedisDriver struct {
	client *redis.Client
}

// NewRedisDriver wraps an existing Redis client and starts the background
// promoter for delayed jobs.
func NewRedisDriver(client *redis.Client) *RedisDriver {
	d := &RedisDriver{client: client}
	go d.promoteDelayed()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	return d.client.LPush(context.Background(), redisJobsKey, payload).Err()
}

// PushDelayed schedules payload to become available after delay.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	return d.client.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  score,
		Member: payload,
	}).Err()
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.client.BRPop(ctx, 2*time.Second, redisJobsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // timeout, let the worker loop spin
		}
		return nil, err
	}
	// BRPop returns [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// promoteDelayed moves due jobs from the delayed set onto the main list.
func (d *RedisDriver) promoteDelayed() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		now := strconv.FormatInt(time.Now().Unix(), 10)

		due, err := d.client.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
			Min: "-inf", Max: now,
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.client.TxPipeline()
		for _, payload := range due {
			pipe.LPush(ctx, redisJobsKey, payload)
			pipe.ZRem(ctx, redisDelayedKey, payload)
		}
		pipe.Exec(ctx) //nolint:errcheck
	}
}
