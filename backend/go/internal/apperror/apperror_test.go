package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessMongoError(t *testing.T) {
	tests := []struct {
		msg  string
		code string
	}{
		{`error parsing uri: scheme must be "mongodb" or "mongodb+srv"`, "MONGO_INVALID_SCHEME"},
		{"Invalid scheme, expected connection string to start with mongodb://", "MONGO_INVALID_SCHEME"},
		{"error parsing uri: must have at least 1 host", "MONGO_INVALID_URI"},
		{"connect ECONNREFUSED 127.0.0.1:27017", "MONGO_CONNECTION_FAILED"},
		{"server selection error: context deadline exceeded, current topology: { Type: Unknown }", "MONGO_CONNECTION_FAILED"},
		{"connection() error occurred during connection handshake: auth error: sasl conversation error", "MONGO_AUTHENTICATION_FAILED"},
		{"Authentication failed.", "MONGO_AUTHENTICATION_FAILED"},
		{"Unable to write to database", "MONGO_WRITE_ACCESS_DENIED"},
		{"operation timed out", "MONGO_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.msg, func(t *testing.T) {
			resp := ProcessMongoError(errors.New(tt.msg))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.Empty(t, resp.Details)
		})
	}
}

func TestProcessMongoErrorGenericKeepsDetails(t *testing.T) {
	resp := ProcessMongoError(errors.New("(Unauthorized) not authorized on admin"))
	assert.Equal(t, MongoGenericError.Code, resp.Code)
	assert.Equal(t, "(Unauthorized) not authorized on admin", resp.Details)
}

func TestProcessMongoErrorContextDeadline(t *testing.T) {
	err := fmt.Errorf("list collections: %w", context.DeadlineExceeded)
	assert.Equal(t, MongoTimeout.Code, ProcessMongoError(err).Code)
}

func TestProcessMongoErrorNil(t *testing.T) {
	assert.Nil(t, ProcessMongoError(nil))
}
