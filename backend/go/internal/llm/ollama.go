package llm

import (
	"SchemaFlow/backend/go/internal/models"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个用于本地 Ollama 服务的 LLM 客户端。
type Ollama struct {
	client *olla.Client
	model  string
}

// NewOllama 创建一个新的 Ollama 客户端。
//
// 参数:
//
//	model: 要使用的模型名称。
//	baseURL: Ollama 服务的基准 URL。如果为空，则默认为 "http://localhost:11434"。
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{Timeout: 120 * time.Second}
	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

func (o *Ollama) Provider() string { return "ollama" }

// GenerateContent 以非流式方式调用 Generate 接口。
func (o *Ollama) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	stream := false
	genReq := &olla.GenerateRequest{
		Model:  o.model,
		Prompt: toOllamaPrompt(req),
		Stream: &stream,
	}
	if req.Temperature != nil {
		genReq.Options = map[string]interface{}{"temperature": *req.Temperature}
	}

	var sb strings.Builder
	var modelVersion string
	err := o.client.Generate(ctx, genReq, func(resp olla.GenerateResponse) error {
		sb.WriteString(resp.Response)
		modelVersion = resp.Model
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with ollama: %w", err)
	}

	return &models.GenerateContentResponse{
		Content: []models.Content{{
			Parts: []*models.Part{{Text: sb.String()}},
			Role:  models.SpeakerModel,
		}},
		ModelVersion: modelVersion,
	}, nil
}

// toOllamaPrompt 把请求中所有文本拼接成一个提示字符串。
func toOllamaPrompt(req *models.GenerateContentRequest) string {
	var sb strings.Builder
	for _, content := range req.Content {
		for _, part := range content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
