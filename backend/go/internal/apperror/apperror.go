// Package apperror 将底层的数据库错误映射为面向用户的固定错误表。
package apperror

import (
	"context"
	"errors"
	"strings"
)

// ErrorConstant 是错误表中的一项。
type ErrorConstant struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse 是返回给客户端的错误对象。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error 实现 error 接口，便于在日志中直接使用。
func (e *ErrorResponse) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Details
	}
	return e.Code + ": " + e.Message
}

var (
	MongoInvalidScheme = ErrorConstant{
		Code:    "MONGO_INVALID_SCHEME",
		Message: "Invalid MongoDB connection string. Please check your database configuration.",
	}
	MongoInvalidURI = ErrorConstant{
		Code:    "MONGO_INVALID_URI",
		Message: "The MongoDB connection URI is invalid. Please verify your database settings.",
	}
	MongoConnectionFailed = ErrorConstant{
		Code:    "MONGO_CONNECTION_FAILED",
		Message: "Failed to connect to the MongoDB database. Please check your network connection and database availability.",
	}
	MongoAuthenticationFailed = ErrorConstant{
		Code:    "MONGO_AUTHENTICATION_FAILED",
		Message: "MongoDB authentication failed. Please check your database credentials.",
	}
	MongoTimeout = ErrorConstant{
		Code:    "MONGO_TIMEOUT",
		Message: "The connection to MongoDB timed out. Please try again or check your database server.",
	}
	MongoWriteAccessDenied = ErrorConstant{
		Code:    "MONGO_WRITE_ACCESS_DENIED",
		Message: "Unable to write to the database. The database might not exist or you may not have write permissions.",
	}
	MongoGenericError = ErrorConstant{
		Code:    "MONGO_GENERIC_ERROR",
		Message: "An unexpected error occurred while connecting to MongoDB. Please try again later.",
	}
)

// rule 将一组子串映射到一个错误常量，按表中顺序匹配。
type rule struct {
	substrings []string
	constant   ErrorConstant
}

var rules = []rule{
	{[]string{"invalid scheme", "invalid connection string", "scheme must be"}, MongoInvalidScheme},
	{[]string{"invalid uri", "error parsing uri"}, MongoInvalidURI},
	{[]string{"connect econnrefused", "failed to connect", "connection refused", "server selection error", "no such host"}, MongoConnectionFailed},
	{[]string{"authentication failed", "auth failed", "auth error"}, MongoAuthenticationFailed},
	{[]string{"unable to write to database"}, MongoWriteAccessDenied},
	{[]string{"timed out", "deadline exceeded", "i/o timeout"}, MongoTimeout},
}

// ProcessMongoError 将错误转换为面向用户的错误响应。
// 无法识别的错误映射为 MONGO_GENERIC_ERROR，并在 Details 中保留原始信息。
func ProcessMongoError(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		for _, s := range r.substrings {
			if strings.Contains(msg, s) {
				return newResponse(r.constant, "")
			}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newResponse(MongoTimeout, "")
	}
	return newResponse(MongoGenericError, err.Error())
}

func newResponse(c ErrorConstant, details string) *ErrorResponse {
	return &ErrorResponse{Code: c.Code, Message: c.Message, Details: details}
}
