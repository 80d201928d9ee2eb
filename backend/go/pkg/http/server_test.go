package http

import (
	"SchemaFlow/backend/go/pkg/circuitbreaker"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerOptions(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(), WithAddress(":9999"), WithTimeouts(time.Second, 2*time.Second))

	assert.Equal(t, ":9999", srv.Addr())
	assert.Equal(t, time.Second, srv.httpServer.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.httpServer.WriteTimeout)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestClientPostJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"databaseName":"shop"}`))
	}))
	defer ts.Close()

	c := NewClient(time.Second, nil)
	var out struct {
		DatabaseName string `json:"databaseName"`
	}
	require.NoError(t, c.PostJSON(context.Background(), ts.URL, map[string]string{"mongoURI": "x"}, &out))
	assert.Equal(t, "shop", out.DatabaseName)
}

func TestClientCircuitBreakerTripsOnServerErrors(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(time.Second, circuitbreaker.New(circuitbreaker.Settings{FailureThreshold: 2, Timeout: time.Minute}))

	for i := 0; i < 2; i++ {
		err := c.PostJSON(context.Background(), ts.URL, nil, nil)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	}

	err := c.PostJSON(context.Background(), ts.URL, nil, nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 2, calls)
}
