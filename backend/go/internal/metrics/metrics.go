package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schemaflow"

var (
	// Registry 是服务私有的注册表，/metrics 只暴露这里注册的指标。
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 请求数，按方法、路由和状态码区分。",
	}, []string{"method", "path", "status"})

	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时。",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	LLMCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_calls_total",
		Help:      "LLM 调用次数，按提供商和结果区分。",
	}, []string{"provider", "outcome"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relationship_cache_lookups_total",
		Help:      "关系缓存查询次数，按后端和命中情况区分。",
	}, []string{"backend", "result"})

	SampledCollections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sampled_collections_total",
		Help:      "已采样的集合总数。",
	})
)

func init() {
	Registry.MustRegister(
		HTTPRequests,
		HTTPLatency,
		LLMCalls,
		CacheLookups,
		SampledCollections,
		prometheus.NewGoCollector(),
	)
}

// Handler 返回 Registry 的 Prometheus 文本格式处理器。
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
