package httpmiddleware

import (
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/pkg/logger"
	"SchemaFlow/backend/go/pkg/ratelimiter"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// RequestIDHeader carries the per-request trace id back to the client.
	RequestIDHeader = "X-Request-ID"
	// TraceIDKey is the gin context key holding the trace id.
	TraceIDKey = "trace_id"
)

// RateLimit rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by gin's ClientIP.
func RateLimit(limiter ratelimiter.KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}

// RequestLogger assigns a trace id to every request, echoes it in the
// X-Request-ID header and logs one line when the request completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(RequestIDHeader, traceID)

		start := time.Now()
		c.Next()

		info := models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMs:  time.Since(start).Milliseconds(),
		}
		entry := log.WithTraceID(traceID).WithRequest(info)
		switch {
		case info.Status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case info.Status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// Metrics records request counts and latency, labelled by the matched route.
func Metrics(requests *prometheus.CounterVec, latency *prometheus.HistogramVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// TraceID returns the trace id assigned by RequestLogger, or "" if none.
func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
