// Package cache 保存按 schema 哈希索引的关系推断结果，条目在 TTL 之后失效。
package cache

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/database/redis"
	"SchemaFlow/backend/go/internal/database/sqlite"
	"SchemaFlow/backend/go/internal/models"
	"context"
	"fmt"
	"time"
)

// DefaultTTL 是缓存条目的默认有效期。
const DefaultTTL = 24 * time.Hour

// Cache 是关系缓存的统一接口。
type Cache interface {
	// Get 返回未过期的缓存结果；第二个返回值表示是否命中。
	Get(ctx context.Context, hash string) ([]models.Relationship, bool, error)
	// Put 写入或覆盖一个条目，并重置其创建时间。
	Put(ctx context.Context, hash string, rels []models.Relationship) error
	// ClearExpired 删除所有已过期的条目。
	ClearExpired(ctx context.Context) error
	// Backend 返回后端名称，用于日志和指标。
	Backend() string
	Close() error
}

// New 根据配置创建缓存后端。
func New(ctx context.Context, cfg *config.CacheConfig) (Cache, error) {
	ttl := config.Duration(cfg.TTL, DefaultTTL)

	switch cfg.Backend {
	case "", "none":
		return Noop{}, nil
	case "memory":
		return NewMemory(cfg.Memory.Capacity, ttl, nil)
	case "redis":
		rdb, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedis(rdb, cfg.Redis.KeyPrefix, ttl), nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLite(db, ttl, nil), nil
	default:
		return nil, fmt.Errorf("未知的缓存后端: %s", cfg.Backend)
	}
}

// Noop 是不保存任何内容的缓存，对应 backend 为 "none"。
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.Relationship, bool, error) {
	return nil, false, nil
}

func (Noop) Put(context.Context, string, []models.Relationship) error { return nil }

func (Noop) ClearExpired(context.Context) error { return nil }

func (Noop) Backend() string { return "none" }

func (Noop) Close() error { return nil }
