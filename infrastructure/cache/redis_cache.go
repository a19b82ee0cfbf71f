package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"artist-hub/domain/dto"
	"artist-hub/infrastructure/logger"
)

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// StatusCache keeps the per-owner integration status projection in Redis.
// Reads and writes are best effort; any Redis error degrades to a miss.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &StatusCache{client: client, ttl: ttl}
}

func statusKey(ownerID string) string {
	return "integration:status:" + ownerID
}

func (c *StatusCache) GetStatus(ctx context.Context, ownerID string) (*dto.IntegrationStatus, bool) {
	raw, err := c.client.Get(ctx, statusKey(ownerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("status cache read failed")
		}
		return nil, false
	}
	status := &dto.IntegrationStatus{}
	if err := json.Unmarshal(raw, status); err != nil {
		logger.GetLogger().WithField("error", err).Warn("status cache entry corrupt")
		return nil, false
	}
	return status, true
}

func (c *StatusCache) SetStatus(ctx context.Context, ownerID string, status *dto.IntegrationStatus) {
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statusKey(ownerID), raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("status cache write failed")
	}
}

// InvalidateOwner drops every cached projection belonging to the owner.
func (c *StatusCache) InvalidateOwner(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, statusKey(ownerID)).Err()
}
