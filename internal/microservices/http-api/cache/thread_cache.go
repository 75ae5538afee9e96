package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reportam/internal/microservices/http-api/dto"

	"github.com/redis/go-redis/v9"
)

// ThreadCache keeps assembled comment threads in Redis, keyed by report.
// Every comment mutation invalidates the report's entry; a nil cache is a no-op.
type ThreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewThreadCache connects to Redis using a redis:// URL
func NewThreadCache(redisURL string, ttl time.Duration) (*ThreadCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ThreadCache{client: rdb, ttl: ttl}, nil
}

func threadKey(reportID string) string {
	return fmt.Sprintf("comments:thread:report:%s", reportID)
}

// Get returns the cached thread of a report; ok is false on a miss
func (c *ThreadCache) Get(ctx context.Context, reportID string) (*dto.ThreadResponse, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, threadKey(reportID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get thread: %w", err)
	}

	var thread dto.ThreadResponse
	if err := json.Unmarshal(raw, &thread); err != nil {
		// Corrupt entry, drop it
		c.client.Del(ctx, threadKey(reportID))
		return nil, false, fmt.Errorf("decode thread: %w", err)
	}
	return &thread, true, nil
}

// Set stores the thread of a report with the configured TTL
func (c *ThreadCache) Set(ctx context.Context, thread *dto.ThreadResponse) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("encode thread: %w", err)
	}
	if err := c.client.Set(ctx, threadKey(thread.ReportID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set thread: %w", err)
	}
	return nil
}

// Invalidate drops the cached thread of a report
func (c *ThreadCache) Invalidate(ctx context.Context, reportID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, threadKey(reportID)).Err(); err != nil {
		return fmt.Errorf("invalidate thread: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool
func (c *ThreadCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
