package httpmiddleware

import (
	"SchemaFlow/backend/go/pkg/logger"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type denyAfter struct{ left map[string]int }

func (d *denyAfter) Allow(key string) bool {
	if d.left[key] <= 0 {
		return false
	}
	d.left[key]--
	return true
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, TraceID(c)) })
	return r
}

func TestRateLimitReturns429(t *testing.T) {
	r := newEngine(RateLimit(&denyAfter{left: map[string]int{"192.0.2.1": 1}}))

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestRequestLoggerSetsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithOutput(logrus.InfoLevel, &buf)
	defer logger.Init(logrus.InfoLevel)

	r := newEngine(RequestLogger(logger.New("test")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	traceID := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rec.Body.String())
	assert.Contains(t, buf.String(), traceID)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Header().Get(RequestIDHeader))
}

func TestMetricsLabelsByRoute(t *testing.T) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "reqs"}, []string{"method", "path", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "lat"}, []string{"method", "path"})
	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency)

	r := newEngine(Metrics(requests, latency))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	families, err := reg.Gather()
	assert.NoError(t, err)
	var paths []string
	for _, f := range families {
		if f.GetName() != "reqs" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" {
					paths = append(paths, l.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/ping", "unmatched"}, paths)
}
