package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address         string `yaml:"address"`         // 监听地址，例如 ":3000"
	ReadTimeout     string `yaml:"readTimeout"`     // 例如: "30s"
	WriteTimeout    string `yaml:"writeTimeout"`    // 例如: "120s"
	ShutdownTimeout string `yaml:"shutdownTimeout"` // 优雅关闭的最长等待时间
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// MongoConfig 定义了被分析的 MongoDB 的连接配置。
type MongoConfig struct {
	DefaultURI        string `yaml:"defaultURI"`        // 请求未携带 URI 时使用的默认连接串
	DefaultDatabase   string `yaml:"defaultDatabase"`   // URI 中未指定数据库时使用的数据库名
	ConnectTimeout    string `yaml:"connectTimeout"`    // 连接与服务器选择超时
	SampleConcurrency int    `yaml:"sampleConcurrency"` // 并发采样的集合数量上限
}

// OpenAIConfig 包含了 OpenAI 模型的配置。
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`  // OpenAI API 密钥
	Model   string `yaml:"model"`   // 模型名称，默认 gpt-4
	BaseURL string `yaml:"baseURL"` // 可选，兼容 OpenAI 协议的服务地址
}

// GeminiConfig 包含了 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"` // Gemini API 密钥
	Model  string `yaml:"model"`  // Gemini 模型名称
}

// OllamaConfig 包含了本地 Ollama 服务的配置。
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // Ollama 服务地址
	Model   string `yaml:"model"`   // 模型名称
}

// LLMConfig 包含了不同LLM提供商的配置。
type LLMConfig struct {
	Provider             string       `yaml:"provider"`             // "openai", "gemini", "ollama" 或 "none"
	Temperature          float32      `yaml:"temperature"`          // 采样温度
	Timeout              string       `yaml:"timeout"`              // 单次调用超时
	FallbackToHeuristics bool         `yaml:"fallbackToHeuristics"` // 调用失败时是否退回启发式推断
	OpenAI               OpenAIConfig `yaml:"openai"`
	Gemini               GeminiConfig `yaml:"gemini"`
	Ollama               OllamaConfig `yaml:"ollama"`
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address   string `yaml:"address"`   // Redis 服务器地址 (例如: "localhost:6379")
	Password  string `yaml:"password"`  // Redis 密码
	DB        int    `yaml:"db"`        // Redis 数据库编号
	KeyPrefix string `yaml:"keyPrefix"` // 缓存键前缀
}

// SQLiteConfig 定义了 SQLite 缓存文件的位置。
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MemoryCacheConfig 定义了进程内缓存的容量。
type MemoryCacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// CacheConfig 定义了关系推断结果的缓存。
type CacheConfig struct {
	Backend string            `yaml:"backend"` // "memory", "redis", "sqlite" 或 "none"
	TTL     string            `yaml:"ttl"`     // 条目有效期，默认 "24h"
	Memory  MemoryCacheConfig `yaml:"memory"`
	Redis   RedisConfig       `yaml:"redis"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
}

// Neo4jConfig 定义了 Neo4j 图数据库的连接配置。
type Neo4jConfig struct {
	Enabled  bool   `yaml:"enabled"`  // 是否启用图导出
	Uri      string `yaml:"uri"`      // Neo4j 数据库URI (例如: "bolt://localhost:7687")
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// ExportConfig 包含所有导出目标的配置。
type ExportConfig struct {
	Neo4j Neo4jConfig `yaml:"neo4j"`
}

// RateLimiterConfig 定义了按客户端限流的令牌桶配置。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// LayoutConfig 定义了关系图布局的尺寸，单位为像素。
type LayoutConfig struct {
	NodeWidth       float64 `yaml:"nodeWidth"`
	NodeHeight      float64 `yaml:"nodeHeight"`
	LayerSpacing    float64 `yaml:"layerSpacing"`    // 相邻两层之间的水平间距
	NodeSpacing     float64 `yaml:"nodeSpacing"`     // 同一层内节点的垂直间距
	Padding         float64 `yaml:"padding"`
	IsolatedOffsetX float64 `yaml:"isolatedOffsetX"` // 孤立节点网格相对于最右侧节点的偏移
	IsolatedGapX    float64 `yaml:"isolatedGapX"`
	IsolatedGapY    float64 `yaml:"isolatedGapY"`
	Sweeps          int     `yaml:"sweeps"` // 交叉消减的轮数
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Logger     LoggerConfig     `yaml:"logger"`
	MongoDB    MongoConfig      `yaml:"mongodb"`
	LLM        LLMConfig        `yaml:"llm"`
	Cache      CacheConfig      `yaml:"cache"`
	Export     ExportConfig     `yaml:"export"`
	Layout     LayoutConfig     `yaml:"layout"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// envOverrides 列出了可以通过环境变量覆盖的配置项。
type envOverrides struct {
	MongoURI      string `env:"MONGODB_URI"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	GeminiKey     string `env:"GEMINI_API_KEY"`
	OllamaHost    string `env:"OLLAMA_HOST"`
	LLMProvider   string `env:"SCHEMAFLOW_LLM_PROVIDER"`
	ServerAddress string `env:"SCHEMAFLOW_ADDR"`
	LogLevel      string `env:"SCHEMAFLOW_LOG_LEVEL"`
	CacheBackend  string `env:"SCHEMAFLOW_CACHE_BACKEND"`
}

// Default 返回一份可以直接运行的默认配置。
func Default() *AppConfig {
	return &AppConfig{
		App: AppInfo{Name: "schemaflow", Version: "0.1.0", Environment: "development"},
		Server: ServerConfig{
			Address:         ":3000",
			ReadTimeout:     "30s",
			WriteTimeout:    "120s",
			ShutdownTimeout: "10s",
		},
		Logger: LoggerConfig{Level: "info"},
		MongoDB: MongoConfig{
			DefaultDatabase:   "test",
			ConnectTimeout:    "10s",
			SampleConcurrency: 8,
		},
		LLM: LLMConfig{
			Provider:             "openai",
			Temperature:          0.2,
			Timeout:              "60s",
			FallbackToHeuristics: true,
			OpenAI:               OpenAIConfig{Model: "gpt-4"},
			Gemini:               GeminiConfig{Model: "gemini-1.5-flash"},
			Ollama:               OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama3"},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     "24h",
			Memory:  MemoryCacheConfig{Capacity: 256},
			Redis:   RedisConfig{Address: "localhost:6379", KeyPrefix: "schemaflow:relationships:"},
			SQLite:  SQLiteConfig{Path: "./relationships.sqlite"},
		},
		Layout: LayoutConfig{
			NodeWidth:       250,
			NodeHeight:      300,
			LayerSpacing:    180,
			NodeSpacing:     80,
			Padding:         30,
			IsolatedOffsetX: 400,
			IsolatedGapX:    100,
			IsolatedGapY:    200,
			Sweeps:          4,
		},
		Middleware: MiddlewareConfig{
			RateLimiter: RateLimiterConfig{Enabled: true, Rate: 2, Capacity: 10},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				SuccessThreshold: 1,
				Timeout:          "30s",
			},
		},
	}
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件，未出现的字段保留默认值。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return cfg, nil
}

// Load 是服务启动时使用的完整加载流程：YAML 文件（不存在时使用默认值）、
// .env 文件、环境变量覆盖，最后校验。
func Load(path string) (*AppConfig, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	// .env 文件是可选的。
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 文件失败: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 使用环境变量覆盖配置中的对应字段。
func ApplyEnv(cfg *AppConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("解析环境变量失败: %w", err)
	}
	if o.MongoURI != "" {
		cfg.MongoDB.DefaultURI = o.MongoURI
	}
	if o.OpenAIKey != "" {
		cfg.LLM.OpenAI.APIKey = o.OpenAIKey
	}
	if o.GeminiKey != "" {
		cfg.LLM.Gemini.APIKey = o.GeminiKey
	}
	if o.OllamaHost != "" {
		cfg.LLM.Ollama.BaseURL = o.OllamaHost
	}
	if o.LLMProvider != "" {
		cfg.LLM.Provider = o.LLMProvider
	}
	if o.ServerAddress != "" {
		cfg.Server.Address = o.ServerAddress
	}
	if o.LogLevel != "" {
		cfg.Logger.Level = o.LogLevel
	}
	if o.CacheBackend != "" {
		cfg.Cache.Backend = o.CacheBackend
	}
	return nil
}

// Validate 检查配置中的枚举值和时长字段。
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case "openai", "gemini", "ollama", "none":
	default:
		return fmt.Errorf("不支持的 LLM 提供商: %q", c.LLM.Provider)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "sqlite", "none":
	default:
		return fmt.Errorf("不支持的缓存后端: %q", c.Cache.Backend)
	}
	if c.MongoDB.SampleConcurrency <= 0 {
		return fmt.Errorf("mongodb.sampleConcurrency 必须大于 0")
	}
	if l := c.Layout; l.NodeWidth <= 0 || l.NodeHeight <= 0 {
		return fmt.Errorf("layout.nodeWidth 和 layout.nodeHeight 必须大于 0")
	}
	if l := c.Layout; l.LayerSpacing < 0 || l.NodeSpacing < 0 || l.Padding < 0 ||
		l.IsolatedOffsetX < 0 || l.IsolatedGapX < 0 || l.IsolatedGapY < 0 || l.Sweeps < 0 {
		return fmt.Errorf("layout 中的间距和 sweeps 不能为负数")
	}
	durations := map[string]string{
		"server.readTimeout":                c.Server.ReadTimeout,
		"server.writeTimeout":               c.Server.WriteTimeout,
		"server.shutdownTimeout":            c.Server.ShutdownTimeout,
		"mongodb.connectTimeout":            c.MongoDB.ConnectTimeout,
		"llm.timeout":                       c.LLM.Timeout,
		"cache.ttl":                         c.Cache.TTL,
		"middleware.circuitBreaker.timeout": c.Middleware.CircuitBreaker.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s 不是合法的时长 %q: %w", name, value, err)
		}
	}
	return nil
}

// Duration 解析一个已经通过 Validate 校验的时长字符串，解析失败时返回 fallback。
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
