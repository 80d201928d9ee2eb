package cache

import (
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/pkg/util"
	"context"
	"time"
)

// Memory 是进程内的 TTL LRU 缓存，重启后内容丢失。
type Memory struct {
	lru *util.LRUCache[string, []models.Relationship]
}

// NewMemory 创建内存缓存；now 为空时使用 time.Now。
func NewMemory(capacity int, ttl time.Duration, now func() time.Time) (*Memory, error) {
	if capacity <= 0 {
		capacity = 256
	}
	lru, err := util.NewWithConfig[string, []models.Relationship](util.CacheConfig{
		Capacity: capacity,
		TTL:      ttl,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{lru: lru}, nil
}

func (m *Memory) Get(_ context.Context, hash string) ([]models.Relationship, bool, error) {
	rels, ok := m.lru.Get(hash)
	return rels, ok, nil
}

func (m *Memory) Put(_ context.Context, hash string, rels []models.Relationship) error {
	m.lru.Put(hash, rels)
	return nil
}

func (m *Memory) ClearExpired(context.Context) error {
	m.lru.PurgeExpired()
	return nil
}

func (m *Memory) Backend() string { return "memory" }

func (m *Memory) Close() error { return nil }
