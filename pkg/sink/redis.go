package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list records are pushed to when no key is given.
const DefaultRedisKey = "confluence:attachments"

// RedisSink pushes JSON-encoded records onto a Redis list so download
// workers can consume them with BLPOP.
type RedisSink struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

// RedisOptions configures a RedisSink.
type RedisOptions struct {
	// Key is the list key (default DefaultRedisKey).
	Key string

	// TTL, when positive, is refreshed on the list after every push so an
	// abandoned list expires.
	TTL time.Duration
}

// NewRedisSink creates a sink backed by redisClient.
func NewRedisSink(redisClient *redis.Client, opts RedisOptions) *RedisSink {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if opts.Key == "" {
		opts.Key = DefaultRedisKey
	}
	return &RedisSink{
		redis: redisClient,
		key:   opts.Key,
		ttl:   opts.TTL,
	}
}

// Key returns the list key records are pushed to.
func (s *RedisSink) Key() string {
	return s.key
}

// Emit appends rec to the tail of the list.
func (s *RedisSink) Emit(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		sinkErrorsTotal.WithLabelValues("redis").Inc()
		return fmt.Errorf("marshal record: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, s.key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		sinkErrorsTotal.WithLabelValues("redis").Inc()
		return fmt.Errorf("redis rpush: %w", err)
	}

	recordsWrittenTotal.WithLabelValues("redis").Inc()
	sinkBytesTotal.WithLabelValues("redis").Add(float64(len(data)))
	return nil
}

// Records reads back every record currently in the list, oldest first.
func (s *RedisSink) Records(ctx context.Context) ([]Record, error) {
	values, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	records := make([]Record, 0, len(values))
	for _, v := range values {
		var rec Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Reset deletes the list.
func (s *RedisSink) Reset(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
