package sink

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const dedupeKeyPrefix = "irgsh:report:dedupe:"

// Deduper reports whether a key was already seen inside its window.
// Forget releases a key whose report could not be stored.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// ReportKey identifies a report by its title and description.
func ReportKey(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return hex.EncodeToString(sum[:])
}

// RedisDeduper remembers keys in Redis with SETNX and a TTL.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
}

func NewRedisDeduper(ctx context.Context, redisURL string, window time.Duration) (*RedisDeduper, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisDeduper{client: client, window: window}, nil
}

func (d *RedisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	stored, err := d.client.SetNX(ctx, dedupeKeyPrefix+key, time.Now().Unix(), d.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate report: %w", err)
	}
	return !stored, nil
}

func (d *RedisDeduper) Forget(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, dedupeKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to forget duplicate key: %w", err)
	}
	return nil
}

func (d *RedisDeduper) Close() error {
	return d.client.Close()
}
