package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache caches the available-rooms projection per property and
// sharing type. Every successful occupancy mutation invalidates the
// property's entries, so staleness is bounded by the TTL only for readers
// that never mutate.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func availabilityKey(propertyID uint, sharingType int) string {
	return fmt.Sprintf("available_rooms:%d:%d", propertyID, sharingType)
}

// Get loads a cached projection. Returns false on miss or when no redis
// client is configured.
func (c *AvailabilityCache) Get(ctx context.Context, propertyID uint, sharingType int, target interface{}) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	key := availabilityKey(propertyID, sharingType)
	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return false, err
	}
	if err := GetFromRedis(ctx, c.rdb, key, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, propertyID uint, sharingType int, value interface{}) error {
	if c.rdb == nil {
		return nil
	}
	return SetToRedis(ctx, c.rdb, availabilityKey(propertyID, sharingType), value, c.ttl)
}

// Invalidate drops every sharing-type entry of one property.
func (c *AvailabilityCache) Invalidate(ctx context.Context, propertyID uint) error {
	if c.rdb == nil {
		return nil
	}
	for sharingType := 0; sharingType <= 4; sharingType++ {
		if err := DeleteFromRedis(ctx, c.rdb, availabilityKey(propertyID, sharingType)); err != nil {
			return err
		}
	}
	return nil
}
