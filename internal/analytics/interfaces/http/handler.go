package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/application"
	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
	"github.com/wyfcoding/portfolioanalytics/pkg/response"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 负责处理与组合分析相关的 HTTP 请求
type AnalyticsHandler struct {
	service *application.AnalyticsService
}

// NewAnalyticsHandler 创建 HTTP 处理器
func NewAnalyticsHandler(service *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/analytics")
	{
		api.POST("/reports", h.GenerateReport)
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
	}
}

// GenerateReport 生成组合分析报告
func (h *AnalyticsHandler) GenerateReport(c *gin.Context) {
	var req application.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.service.GenerateReport(c.Request.Context(), &req)
	if err != nil {
		if isAnalysisRejection(err) {
			response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to generate report", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Created(c, dto)
}

// GetReport 按 ID 获取完整报告
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	dto, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get report", "report_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if dto == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "report not found", id)
		return
	}

	response.Success(c, dto)
}

// ListReports 分页列出报告摘要
func (h *AnalyticsHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := h.service.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list reports", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, summaries)
}

// isAnalysisRejection 判断错误是否源于非法或无法分析的输入，
// 这类错误映射为 422 而非 500。
func isAnalysisRejection(err error) bool {
	var (
		alignErr  *domain.AlignmentError
		weightErr *domain.WeightError
		rfErr     *domain.RiskFreeMissingError
		degenErr  *domain.DegenerateVolatilityError
		sampleErr *domain.InsufficientSampleError
		fitErr    *domain.DistributionFitError
	)
	return errors.As(err, &alignErr) ||
		errors.As(err, &weightErr) ||
		errors.As(err, &rfErr) ||
		errors.As(err, &degenErr) ||
		errors.As(err, &sampleErr) ||
		errors.As(err, &fitErr)
}
