package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"friend-service/internal/models"
)

const profileKeyPrefix = "friend-service:profile:"

// RedisCache is a ProfileCache shared between service instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a redis client. Entries expire after ttl even without an
// invalidating tick.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func profileKey(id string) string {
	return profileKeyPrefix + id
}

func (r *RedisCache) Get(ctx context.Context, ids []string) (map[string]models.Profile, []string, error) {
	found := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, profileKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var p models.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = p
	}
	return found, missing, nil
}

func (r *RedisCache) Set(ctx context.Context, profiles []models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, profileKey(p.ID), raw, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate deletes the given ids, or every profile key when called without
// ids.
func (r *RedisCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		iter := r.client.Scan(ctx, 0, profileKeyPrefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return r.client.Del(ctx, keys...).Err()
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, profileKey(id))
	}
	return r.client.Del(ctx, keys...).Err()
}
