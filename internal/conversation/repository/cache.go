package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dealer_portal_backend/internal/conversation/domain"
	"dealer_portal_backend/platform/logger"
)

// RedisContextCache keeps JSON snapshots of recent contexts in Redis so
// reads skip the message-store replay. Everything here is best effort: on
// any failure the caller rebuilds from Postgres.
type RedisContextCache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisContextCache(client *redis.Client, log *logger.Logger) *RedisContextCache {
	return &RedisContextCache{client: client, log: log}
}

func cacheKey(leadID uuid.UUID) string {
	return "convctx:" + leadID.String()
}

func (c *RedisContextCache) Get(ctx context.Context, leadID uuid.UUID) (*domain.Context, bool) {
	raw, err := c.client.Get(ctx, cacheKey(leadID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("context cache read failed", "leadId", leadID, "error", err)
		}
		return nil, false
	}
	var snapshot domain.Context
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.log.Warn("dropping corrupted context snapshot", "leadId", leadID, "error", err)
		c.client.Del(ctx, cacheKey(leadID))
		return nil, false
	}
	return &snapshot, true
}

func (c *RedisContextCache) Set(ctx context.Context, snapshot *domain.Context, ttl time.Duration) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Warn("context snapshot encode failed", "leadId", snapshot.LeadID, "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(snapshot.LeadID), raw, ttl).Err(); err != nil {
		c.log.Warn("context cache write failed", "leadId", snapshot.LeadID, "error", err)
	}
}

var _ ContextCache = (*RedisContextCache)(nil)
