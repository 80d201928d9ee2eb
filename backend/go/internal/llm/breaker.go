package llm

import (
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/pkg/circuitbreaker"
	"context"
)

// guarded 让所有调用经过熔断器，熔断打开时直接返回 circuitbreaker.ErrCircuitOpen。
type guarded struct {
	inner   LLM
	breaker *circuitbreaker.Breaker
}

// WithBreaker 用熔断器包装一个 LLM 客户端。
func WithBreaker(inner LLM, breaker *circuitbreaker.Breaker) LLM {
	if inner == nil || breaker == nil {
		return inner
	}
	return &guarded{inner: inner, breaker: breaker}
}

func (g *guarded) Provider() string { return g.inner.Provider() }

func (g *guarded) Close() error { return Close(g.inner) }

func (g *guarded) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	var resp *models.GenerateContentResponse
	err := g.breaker.Execute(func() error {
		var err error
		resp, err = g.inner.GenerateContent(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
