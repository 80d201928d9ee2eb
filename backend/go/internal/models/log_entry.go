package models

// LogEntry 定义了用于结构化日志的统一数据格式。
type LogEntry struct {
	// ServiceName 是产生这条日志的服务名称，例如 "schemaflow_service"。
	ServiceName string `json:"service_name"`

	// TraceID 标识了一次 HTTP 请求，同时会通过 X-Request-ID 返回给客户端。
	TraceID string `json:"trace_id,omitempty"`

	// RequestInfo 包含了触发此日志的 HTTP 请求的详细信息。
	RequestInfo *RequestInfo `json:"request_info,omitempty"`

	// Error 包含了详细的错误信息，通常在日志级别为 Error 时填充。
	Error *ErrorInfo `json:"error,omitempty"`

	// Payload 用于存放其他与业务相关的结构化数据。
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// RequestInfo 存储了关于 HTTP 请求的上下文信息。
type RequestInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
	Status     int    `json:"status,omitempty"`
	LatencyMs  int64  `json:"latency_ms,omitempty"`
}

// ErrorInfo 存储了关于错误的结构化信息。
type ErrorInfo struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`        // 对应 apperror 中的错误码，例如 "MONGO_TIMEOUT"
	Type       string `json:"type,omitempty"`        // 错误的类型，例如 "database_error", "llm_error"
	StatusCode int    `json:"status_code,omitempty"` // 相关的HTTP状态码
}
