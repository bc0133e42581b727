package application

import (
	"context"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
)

// AnalyticsQuery 处理所有分析报告相关的读取操作（Queries）。
type AnalyticsQuery struct {
	reportRepo domain.ReportRepository
}

// NewAnalyticsQuery 构造函数。
func NewAnalyticsQuery(reportRepo domain.ReportRepository) *AnalyticsQuery {
	return &AnalyticsQuery{reportRepo: reportRepo}
}

// GetReport 按 ID 获取完整报告，不存在时返回 nil。
func (q *AnalyticsQuery) GetReport(ctx context.Context, id string) (*AnalysisReportDTO, error) {
	report, err := q.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReportDTO(report), nil
}

// ListReports 分页列出报告摘要，按创建时间倒序。
func (q *AnalyticsQuery) ListReports(ctx context.Context, limit, offset int) ([]ReportSummaryDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	summaries, err := q.reportRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	dtos := make([]ReportSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, toSummaryDTO(s))
	}
	return dtos, nil
}
