// Package cache is a redis read-through cache for the public basic view of a
// blood unit. The basic view is the registry's hottest read (it needs no
// authorization) and tolerates the staleness bound set by the TTL; every
// status change invalidates the entry anyway.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const basicInfoKeyPrefix = "hemotrace:basic:"

// BasicInfo is the cached public projection.
type BasicInfo struct {
	Status       uint8     `json:"status"`
	StatusName   string    `json:"status_name"`
	ExpiryTime   time.Time `json:"expiry_time"`
	Location     string    `json:"location"`
	DonationType string    `json:"donation_type"`
}

// BasicInfoCache stores the projection with a TTL.
type BasicInfoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBasicInfoCache(client *redis.Client, ttl time.Duration) *BasicInfoCache {
	return &BasicInfoCache{client: client, ttl: ttl}
}

// Find returns the cached projection, or (nil, nil) on a miss.
func (c *BasicInfoCache) Find(ctx context.Context, unitID uint64) (*BasicInfo, error) {
	raw, err := c.client.Get(ctx, key(unitID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var info BasicInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &info, nil
}

// Save stores the projection for the TTL.
func (c *BasicInfoCache) Save(ctx context.Context, unitID uint64, info BasicInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, key(unitID), raw, c.ttl).Err()
}

// Invalidate drops the entry after a status change.
func (c *BasicInfoCache) Invalidate(ctx context.Context, unitID uint64) error {
	return c.client.Del(ctx, key(unitID)).Err()
}

func key(unitID uint64) string {
	return fmt.Sprintf("%s%d", basicInfoKeyPrefix, unitID)
}
