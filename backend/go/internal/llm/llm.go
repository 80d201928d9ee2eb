package llm

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/models"
	"context"
	"fmt"
	"io"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
	// Provider 返回提供商名称，例如 "openai"，用于日志和指标。
	Provider() string
}

// NewClient 是一个工厂函数，根据配置创建并返回一个实现了 LLM 接口的客户端。
// provider 为 "none" 时返回 nil，调用方应改用启发式推断。
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider 需要 OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini provider 需要 GEMINI_API_KEY")
		}
		return NewGemini(ctx, cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Close 释放客户端持有的连接（例如 Gemini 的 gRPC 连接），无需释放资源的客户端直接返回 nil。
func Close(model LLM) error {
	if c, ok := model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
