package store

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/database/mongo"
	"SchemaFlow/backend/go/internal/models"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// SampleResult 是一次采样的结果：数据库名以及每个集合的一条样本文档和文档数。
type SampleResult struct {
	DatabaseName string
	Collections  []models.RawCollection
}

// Sampler 连接数据库并对每个集合采样。
type Sampler interface {
	Sample(ctx context.Context, uri string) (*SampleResult, error)
}

// collectionReader 是采样所需的最小数据库操作集合。
type collectionReader interface {
	CollectionNames(ctx context.Context) ([]string, error)
	FirstDocument(ctx context.Context, collection string) (bson.D, error)
	Count(ctx context.Context, collection string) (int64, error)
}

// MongoSampler 为每次请求建立独立连接，采样完成后断开。
type MongoSampler struct {
	cfg *config.MongoConfig
}

func NewMongoSampler(cfg *config.MongoConfig) *MongoSampler {
	return &MongoSampler{cfg: cfg}
}

// Sample 实现 Sampler。
func (s *MongoSampler) Sample(ctx context.Context, uri string) (*SampleResult, error) {
	client, dbName, err := mongo.Connect(ctx, uri, s.cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	collections, err := sampleCollections(ctx, &mongoReader{db: client.Database(dbName)}, s.cfg.SampleConcurrency)
	if err != nil {
		return nil, err
	}
	return &SampleResult{DatabaseName: dbName, Collections: collections}, nil
}

// sampleCollections 并发读取所有非 system.* 集合，结果按名称排序。
func sampleCollections(ctx context.Context, r collectionReader, limit int) ([]models.RawCollection, error) {
	names, err := r.CollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	var kept []string
	for _, name := range names {
		if !strings.HasPrefix(name, "system.") {
			kept = append(kept, name)
		}
	}
	sort.Strings(kept)

	if limit <= 0 {
		limit = 8
	}
	out := make([]models.RawCollection, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range kept {
		g.Go(func() error {
			raw, err := sampleOne(gctx, r, name)
			if err != nil {
				return err
			}
			out[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sampleOne 并行执行 FindOne 和 CountDocuments。
func sampleOne(ctx context.Context, r collectionReader, name string) (models.RawCollection, error) {
	raw := models.RawCollection{Name: name}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := r.FirstDocument(gctx, name)
		if err != nil {
			return fmt.Errorf("failed to sample %s: %w", name, err)
		}
		raw.Document = doc
		return nil
	})
	g.Go(func() error {
		n, err := r.Count(gctx, name)
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", name, err)
		}
		raw.Count = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.RawCollection{}, err
	}
	return raw, nil
}

type mongoReader struct {
	db *mongodriver.Database
}

func (m *mongoReader) CollectionNames(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.D{})
}

// FirstDocument 对空集合返回空文档。
func (m *mongoReader) FirstDocument(ctx context.Context, collection string) (bson.D, error) {
	var doc bson.D
	err := m.db.Collection(collection).FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return bson.D{}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *mongoReader) Count(ctx context.Context, collection string) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, bson.D{})
}
