package redis

import (
	"SchemaFlow/backend/go/internal/config"
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewClient 按配置创建 Redis 客户端，并通过 Ping 检查连接是否可用。
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("无法连接到 Redis: %w", err)
	}
	return rdb, nil
}
