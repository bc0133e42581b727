package application

import (
	"context"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/pkg/metrics"
)

// AnalyticsService 分析门面服务，整合 Manager 和 Query。
type AnalyticsService struct {
	manager *AnalyticsManager
	query   *AnalyticsQuery
}

// NewAnalyticsService 构造函数。
func NewAnalyticsService(
	reportRepo domain.ReportRepository,
	publisher domain.EventPublisher,
	prices PriceSource,
	riskFree RiskFreeSource,
	defaults AnalysisDefaults,
	collector *metrics.Metrics,
) *AnalyticsService {
	return &AnalyticsService{
		manager: NewAnalyticsManager(reportRepo, publisher, prices, riskFree, defaults, collector),
		query:   NewAnalyticsQuery(reportRepo),
	}
}

// --- Manager (Writes) ---

func (s *AnalyticsService) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*AnalysisReportDTO, error) {
	return s.manager.GenerateReport(ctx, req)
}

// --- Query (Reads) ---

func (s *AnalyticsService) GetReport(ctx context.Context, id string) (*AnalysisReportDTO, error) {
	return s.query.GetReport(ctx, id)
}

func (s *AnalyticsService) ListReports(ctx context.Context, limit, offset int) ([]ReportSummaryDTO, error) {
	return s.query.ListReports(ctx, limit, offset)
}
