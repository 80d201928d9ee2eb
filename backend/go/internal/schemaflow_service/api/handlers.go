package api

import (
	"SchemaFlow/backend/go/internal/apperror"
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/internal/schemaflow_service/service"
	"SchemaFlow/backend/go/pkg/httpmiddleware"
	"SchemaFlow/backend/go/pkg/logger"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SchemaService 是处理函数依赖的业务接口，由 service.Service 实现。
type SchemaService interface {
	Connect(ctx context.Context, uri string) (*models.DatabaseConnectionResult, error)
	InferRelationships(ctx context.Context, schemas []models.RawSchema) ([]models.Relationship, error)
	Layout(collections []models.Collection, relationships []models.Relationship) models.FlowData
	Analyze(ctx context.Context, uri string) (*models.Diagram, error)
	Export(ctx context.Context, diagram *models.Diagram) error
	Health(ctx context.Context) error
}

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service SchemaService
	log     *logger.Logger
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s SchemaService, log *logger.Logger) *Handler {
	return &Handler{service: s, log: log}
}

// ConnectRequest 定义了 /api/connect 和 /api/analyze 的请求体。
// MongoURI 为空时使用配置中的默认连接串。
type ConnectRequest struct {
	MongoURI string `json:"mongoURI"`
}

// RelationshipsRequest 定义了 /api/relationships 的请求体。
type RelationshipsRequest struct {
	Schemas []models.RawSchema `json:"schemas" binding:"required"`
}

// LayoutRequest 定义了 /api/layout 的请求体。
type LayoutRequest struct {
	Collections   []models.Collection   `json:"collections" binding:"required"`
	Relationships []models.Relationship `json:"relationships"`
}

// Connect 采样数据库并返回每个集合的字段类型。
func (h *Handler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Connect(c.Request.Context(), req.MongoURI)
	if err != nil {
		h.mongoFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Relationships 推断客户端提交的 schema 之间的关系。
func (h *Handler) Relationships(c *gin.Context) {
	var req RelationshipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rels, err := h.service.InferRelationships(c.Request.Context(), req.Schemas)
	if err != nil {
		h.logFailure(c, err, "", "llm_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rels)
}

// Layout 计算节点位置。
func (h *Handler) Layout(c *gin.Context) {
	var req LayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.service.Layout(req.Collections, req.Relationships))
}

// Analyze 一次完成采样、关系推断和布局。
func (h *Handler) Analyze(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	diagram, err := h.service.Analyze(c.Request.Context(), req.MongoURI)
	if errors.Is(err, service.ErrInference) {
		h.logFailure(c, err, "", "llm_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.mongoFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, diagram)
}

// Export 把客户端提交的关系图写入图数据库。
func (h *Handler) Export(c *gin.Context) {
	var diagram models.Diagram
	if err := c.ShouldBindJSON(&diagram); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Export(c.Request.Context(), &diagram)
	switch {
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidDiagram):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logFailure(c, err, "", "export_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "导出成功"})
	}
}

// Healthz 用于存活探测，启用导出时同时检查 Neo4j。
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) mongoFailure(c *gin.Context, err error) {
	resp := apperror.ProcessMongoError(err)
	h.logFailure(c, err, resp.Code, "database_error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": resp})
}

func (h *Handler) logFailure(c *gin.Context, err error, code, kind string) {
	h.log.WithTraceID(httpmiddleware.TraceID(c)).
		WithError(models.ErrorInfo{
			Message:    err.Error(),
			Code:       code,
			Type:       kind,
			StatusCode: http.StatusInternalServerError,
		}).
		Error("请求处理失败")
}
