package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/clinova/pos-api/internal/domain/entity"
)

type RedisBenefitsCache struct {
	client *redis.Client
}

func NewRedisBenefitsCache(addr string, password string, db int) *RedisBenefitsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisBenefitsCache{client: client}
}

func (c *RedisBenefitsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisBenefitsCache) Close() error {
	return c.client.Close()
}

func (c *RedisBenefitsCache) Get(ctx context.Context, key string) (*entity.MemberBenefits, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var benefits entity.MemberBenefits
	if err := json.Unmarshal([]byte(val), &benefits); err != nil {
		return nil, false, err
	}
	return &benefits, true, nil
}

func (c *RedisBenefitsCache) Set(ctx context.Context, key string, value *entity.MemberBenefits, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisBenefitsCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
