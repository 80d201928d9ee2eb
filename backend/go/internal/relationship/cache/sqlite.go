package cache

import (
	"SchemaFlow/backend/go/internal/models"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLite 把条目保存在 relationships 表中，created_at 为毫秒时间戳。
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLite(db *sql.DB, ttl time.Duration, now func() time.Time) *SQLite {
	if now == nil {
		now = time.Now
	}
	return &SQLite{db: db, ttl: ttl, now: now}
}

func (s *SQLite) cutoff() int64 {
	return s.now().Add(-s.ttl).UnixMilli()
}

func (s *SQLite) Get(ctx context.Context, hash string) ([]models.Relationship, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT relationships FROM relationships WHERE schema_hash = ? AND created_at > ?`,
		hash, s.cutoff(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query relationship cache: %w", err)
	}

	var rels []models.Relationship
	if err := json.Unmarshal([]byte(raw), &rels); err != nil {
		return nil, false, fmt.Errorf("decode relationship cache: %w", err)
	}
	return rels, true, nil
}

func (s *SQLite) Put(ctx context.Context, hash string, rels []models.Relationship) error {
	raw, err := json.Marshal(rels)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO relationships (schema_hash, relationships, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(schema_hash) DO UPDATE SET relationships = excluded.relationships, created_at = excluded.created_at`,
		hash, string(raw), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store relationship cache: %w", err)
	}
	return nil
}

func (s *SQLite) ClearExpired(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM relationships WHERE created_at <= ?`, s.cutoff()); err != nil {
		return fmt.Errorf("clear expired relationship cache: %w", err)
	}
	return nil
}

// count 返回表中的条目数，包括已过期但尚未清理的条目。
func (s *SQLite) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&n)
	return n, err
}

func (s *SQLite) Backend() string { return "sqlite" }

func (s *SQLite) Close() error { return s.db.Close() }
