package mongo

import (
	"SchemaFlow/backend/go/internal/config"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Connect 为一次分析请求创建独立的 MongoDB 客户端并 Ping 确认可用。
// 返回的客户端由调用方负责 Disconnect，请求之间不共享连接。
func Connect(ctx context.Context, uri string, cfg *config.MongoConfig) (*mongo.Client, string, error) {
	if uri == "" {
		uri = cfg.DefaultURI
	}
	if uri == "" {
		return nil, "", fmt.Errorf("invalid uri: MongoDB 连接串为空")
	}

	dbName, err := DatabaseName(uri, cfg.DefaultDatabase)
	if err != nil {
		return nil, "", err
	}

	timeout := config.Duration(cfg.ConnectTimeout, 10*time.Second)
	clientOptions := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	c, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, "", fmt.Errorf("无法连接到 MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pingCtx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, "", fmt.Errorf("无法 Ping MongoDB: %w", err)
	}
	return c, dbName, nil
}

// DatabaseName 从连接串中解析数据库名，未指定时返回 fallback。
func DatabaseName(uri, fallback string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("error parsing uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	if fallback == "" {
		return "test", nil
	}
	return fallback, nil
}
