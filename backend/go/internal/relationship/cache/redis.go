package cache

import (
	"SchemaFlow/backend/go/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisStore 是 Redis 缓存用到的 go-redis 命令子集。
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Redis 把条目序列化为 JSON 存入 Redis，过期交给 Redis 自身处理。
type Redis struct {
	client redisStore
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return newRedis(client, prefix, ttl)
}

func newRedis(client redisStore, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(hash string) string {
	return r.prefix + hash
}

func (r *Redis) Get(ctx context.Context, hash string) ([]models.Relationship, bool, error) {
	raw, err := r.client.Get(ctx, r.key(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取 Redis 缓存失败: %w", err)
	}

	var rels []models.Relationship
	if err := json.Unmarshal(raw, &rels); err != nil {
		return nil, false, fmt.Errorf("解析 Redis 缓存失败: %w", err)
	}
	return rels, true, nil
}

func (r *Redis) Put(ctx context.Context, hash string, rels []models.Relationship) error {
	raw, err := json.Marshal(rels)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(hash), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("写入 Redis 缓存失败: %w", err)
	}
	return nil
}

// ClearExpired 无需操作，键在 SET 时已带有过期时间。
func (r *Redis) ClearExpired(context.Context) error { return nil }

func (r *Redis) Backend() string { return "redis" }

func (r *Redis) Close() error { return r.client.Close() }
