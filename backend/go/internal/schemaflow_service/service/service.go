package service

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/layout"
	"SchemaFlow/backend/go/internal/llm"
	"SchemaFlow/backend/go/internal/metrics"
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/internal/relationship"
	"SchemaFlow/backend/go/internal/relationship/cache"
	"SchemaFlow/backend/go/internal/schema"
	"SchemaFlow/backend/go/internal/schemaflow_service/store"
	"SchemaFlow/backend/go/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrExportDisabled 表示没有配置图数据库导出。
	ErrExportDisabled = errors.New("graph export is disabled")
	// ErrInvalidDiagram 表示待导出的关系图缺少 databaseName。
	ErrInvalidDiagram = errors.New("diagram is missing databaseName")
	// ErrInference 包装了 Analyze 中关系推断阶段的失败，用于和数据库错误区分。
	ErrInference = errors.New("relationship inference failed")
)

// Service 串联采样、类型推断、关系推断和布局。
type Service struct {
	sampler    store.Sampler
	model      llm.LLM // 为 nil 时只使用启发式推断
	cache      cache.Cache
	graph      store.GraphStore // 为 nil 时导出不可用
	llmCfg     config.LLMConfig
	layoutOpts layout.Options
	log        *logger.Logger
}

// Option 用于配置 Service 的可选依赖。
type Option func(*Service)

// WithLLM 设置关系推断使用的大模型客户端。
func WithLLM(model llm.LLM) Option {
	return func(s *Service) { s.model = model }
}

// WithCache 设置关系推断结果的缓存。
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithGraphStore 启用图数据库导出。
func WithGraphStore(g store.GraphStore) Option {
	return func(s *Service) { s.graph = g }
}

// WithLayoutOptions 覆盖默认的布局尺寸。
func WithLayoutOptions(opts layout.Options) Option {
	return func(s *Service) { s.layoutOpts = opts }
}

// New 创建一个 Service。
func New(sampler store.Sampler, llmCfg config.LLMConfig, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		sampler:    sampler,
		cache:      cache.Noop{},
		llmCfg:     llmCfg,
		layoutOpts: layout.DefaultOptions(),
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect 对数据库采样并推断每个集合的字段类型。
func (s *Service) Connect(ctx context.Context, uri string) (*models.DatabaseConnectionResult, error) {
	sample, err := s.sampler.Sample(ctx, uri)
	if err != nil {
		return nil, err
	}
	metrics.SampledCollections.Add(float64(len(sample.Collections)))

	return &models.DatabaseConnectionResult{
		Collections:  schema.ExtractFieldTypes(sample.Collections),
		DatabaseName: sample.DatabaseName,
	}, nil
}

// InferRelationships 推断集合之间的引用关系。
// 结果按 schema 哈希缓存；大模型调用失败且允许回退时返回启发式结果，该结果不写入缓存。
func (s *Service) InferRelationships(ctx context.Context, schemas []models.RawSchema) ([]models.Relationship, error) {
	if len(schemas) == 0 {
		return []models.Relationship{}, nil
	}
	if s.model == nil {
		return s.heuristic(schemas), nil
	}

	hash, err := relationship.SchemaHash(schemas)
	if err != nil {
		return nil, fmt.Errorf("hash schemas: %w", err)
	}
	log := s.log.WithPayload(map[string]interface{}{"schema_hash": hash, "cache": s.cache.Backend()})

	cached, ok, err := s.cache.Get(ctx, hash)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(s.cache.Backend(), "error").Inc()
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "cache_error"}).Warn("关系缓存读取失败")
	case ok:
		metrics.CacheLookups.WithLabelValues(s.cache.Backend(), "hit").Inc()
		log.Debug("关系缓存命中")
		return nonNil(cached), nil
	default:
		metrics.CacheLookups.WithLabelValues(s.cache.Backend(), "miss").Inc()
	}

	rels, err := s.askModel(ctx, schemas)
	if err != nil {
		if !s.llmCfg.FallbackToHeuristics {
			return nil, err
		}
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "llm_error"}).Warn("大模型推断失败，使用启发式结果")
		return s.heuristic(schemas), nil
	}

	if err := s.cache.Put(ctx, hash, rels); err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "cache_error"}).Warn("关系缓存写入失败")
	}
	if err := s.cache.ClearExpired(ctx); err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "cache_error"}).Warn("清理过期缓存失败")
	}
	return rels, nil
}

// askModel 构造提示词并解析大模型的回复。
func (s *Service) askModel(ctx context.Context, schemas []models.RawSchema) ([]models.Relationship, error) {
	prompt, err := relationship.GeneratePrompt(relationship.PreprocessSchemas(schemas))
	if err != nil {
		return nil, fmt.Errorf("generate prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, config.Duration(s.llmCfg.Timeout, 60*time.Second))
	defer cancel()

	provider := s.model.Provider()
	resp, err := s.model.GenerateContent(callCtx, models.NewTextRequest(prompt, s.llmCfg.Temperature))
	if err != nil {
		metrics.LLMCalls.WithLabelValues(provider, "error").Inc()
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	rels, err := relationship.ParseRelationships(resp.Text())
	if err != nil {
		metrics.LLMCalls.WithLabelValues(provider, "invalid_response").Inc()
		return nil, err
	}
	metrics.LLMCalls.WithLabelValues(provider, "ok").Inc()
	return nonNil(rels), nil
}

func (s *Service) heuristic(schemas []models.RawSchema) []models.Relationship {
	return nonNil(relationship.InferHeuristic(schemas))
}

// Layout 为集合和关系计算节点位置。
func (s *Service) Layout(collections []models.Collection, relationships []models.Relationship) models.FlowData {
	return layout.Generate(collections, relationships, s.layoutOpts)
}

// Analyze 依次执行 Connect、InferRelationships 和 Layout。
func (s *Service) Analyze(ctx context.Context, uri string) (*models.Diagram, error) {
	conn, err := s.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}

	rels, err := s.InferRelationships(ctx, models.SchemasFromCollections(conn.Collections))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	flow := s.Layout(conn.Collections, rels)
	return &models.Diagram{
		DatabaseName:  conn.DatabaseName,
		Collections:   conn.Collections,
		Relationships: rels,
		Nodes:         flow.Nodes,
		Edges:         flow.Edges,
	}, nil
}

// Export 把关系图写入图数据库。
func (s *Service) Export(ctx context.Context, diagram *models.Diagram) error {
	if s.graph == nil {
		return ErrExportDisabled
	}
	if diagram == nil || diagram.DatabaseName == "" {
		return ErrInvalidDiagram
	}
	return s.graph.SaveDiagram(ctx, diagram)
}

// Health 检查可选依赖的状态；未启用导出时总是健康。
func (s *Service) Health(ctx context.Context) error {
	if s.graph == nil {
		return nil
	}
	if err := s.graph.HealthCheck(ctx); err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}
	return nil
}

func nonNil(rels []models.Relationship) []models.Relationship {
	if rels == nil {
		return []models.Relationship{}
	}
	return rels
}
