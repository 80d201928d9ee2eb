package logger

import (
	"SchemaFlow/backend/go/internal/models"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(logrus.DebugLevel, &buf)
	defer Init(logrus.InfoLevel)

	base := New("schemaflow_service")
	base.WithTraceID("abc").
		WithRequest(models.RequestInfo{Method: "POST", Path: "/api/connect", Status: 200}).
		Info("request handled")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request handled", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "schemaflow_service", line["service_name"])
	assert.Equal(t, "abc", line["trace_id"])
	assert.Contains(t, line, "timestamp")
	assert.Contains(t, line, "request_info")
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(logrus.InfoLevel, &buf)
	defer Init(logrus.InfoLevel)

	base := New("svc")
	_ = base.WithTraceID("child")
	base.Info("parent")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "trace_id")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("loud"))
}
