package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
	"github.com/wyfcoding/portfolioanalytics/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PriceSource 提供已清洗对齐的收盘价矩阵。
type PriceSource interface {
	LoadPrices(ctx context.Context, symbols []string, start, end time.Time) (domain.PriceTable, error)
}

// RiskFreeSource 提供无风险年化收益率序列。
type RiskFreeSource interface {
	LoadRiskFree(ctx context.Context, start, end time.Time) (domain.RiskFreeSeries, error)
}

// AnalysisDefaults 请求未指定时使用的分析参数。
type AnalysisDefaults struct {
	ConfidenceLevels []float64
	RollingWindows   []int
}

// AnalyticsManager 处理所有分析报告相关的写入操作（Commands）。
type AnalyticsManager struct {
	reportRepo domain.ReportRepository
	publisher  domain.EventPublisher
	prices     PriceSource
	riskFree   RiskFreeSource
	defaults   AnalysisDefaults
	collector  *metrics.Metrics
}

// NewAnalyticsManager 构造函数。
func NewAnalyticsManager(
	reportRepo domain.ReportRepository,
	publisher domain.EventPublisher,
	prices PriceSource,
	riskFree RiskFreeSource,
	defaults AnalysisDefaults,
	collector *metrics.Metrics,
) *AnalyticsManager {
	return &AnalyticsManager{
		reportRepo: reportRepo,
		publisher:  publisher,
		prices:     prices,
		riskFree:   riskFree,
		defaults:   defaults,
		collector:  collector,
	}
}

// GenerateReport 执行一次完整的组合分析并持久化结果。
// 各分析环节互相独立，失败即整体失败，不输出部分结果。
func (m *AnalyticsManager) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*AnalysisReportDTO, error) {
	started := time.Now()

	weights, symbols, err := parseWeights(req.Weights)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(req.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", req.Start, err)
	}
	end, err := parseDate(req.End)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", req.End, err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("start date %s must precede end date %s", req.Start, req.End)
	}

	table, err := m.prices.LoadPrices(ctx, symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	portfolio, err := domain.BuildPortfolioSeries(table, weights)
	if err != nil {
		return nil, err
	}

	excess, err := m.buildExcessReturns(ctx, req, portfolio.Returns, start, end)
	if err != nil {
		return nil, err
	}

	assetReturns, _, err := domain.InstrumentReturns(table)
	if err != nil {
		return nil, err
	}

	confidences := req.ConfidenceLevels
	if len(confidences) == 0 {
		confidences = m.defaults.ConfidenceLevels
	}
	windows := req.RollingWindows
	if len(windows) == 0 {
		windows = m.defaults.RollingWindows
	}

	// 各分析环节互不依赖，并行执行
	var (
		performance     *domain.PerformanceReport
		drawdown        *domain.DrawdownResult
		distribution    *domain.DistributionDiagnostics
		tailRisk        []domain.TailRiskEstimate
		diversification *domain.DiversificationResult
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		performance, err = domain.ComputePerformance(portfolio.Returns, portfolio.Equity, excess, 0)
		return err
	})
	g.Go(func() error {
		var err error
		drawdown, err = domain.AnalyzeDrawdown(portfolio.Equity)
		return err
	})
	g.Go(func() error {
		var err error
		distribution, err = domain.ComputeDistribution(portfolio.Returns, windows)
		return err
	})
	g.Go(func() error {
		var err error
		tailRisk, err = domain.EstimateAllTailRisks(portfolio.Returns.Values, confidences)
		return err
	})
	g.Go(func() error {
		var err error
		diversification, err = domain.ComputeDiversification(symbols, assetReturns, weights, portfolio.Returns.Values)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Start:           table.Dates[0],
		End:             table.Dates[len(table.Dates)-1],
		Weights:         weights,
		Returns:         portfolio.Returns,
		Equity:          portfolio.Equity,
		Performance:     *performance,
		Drawdown:        *drawdown,
		Distribution:    *distribution,
		TailRisk:        tailRisk,
		Diversification: *diversification,
	}

	if err := m.reportRepo.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	event := domain.ReportCompletedEvent{
		ReportID:         report.ID,
		CreatedAt:        report.CreatedAt,
		Start:            report.Start,
		End:              report.End,
		TotalReturn:      report.Performance.TotalReturn,
		SharpeAnnualized: report.Performance.SharpeAnnualized,
		MaxDrawdown:      report.Performance.MaxDrawdown,
	}
	if err := m.publisher.PublishReportCompleted(ctx, event); err != nil {
		// 事件发布失败不影响已持久化的报告
		logger.Error(ctx, "failed to publish report completed event", "report_id", report.ID, "error", err)
	} else if m.collector != nil {
		m.collector.EventsPublishedTotal.Inc()
	}

	if m.collector != nil {
		m.collector.ReportsGeneratedTotal.Inc()
		m.collector.ReportDuration.Observe(time.Since(started).Seconds())
	}
	logger.Info(ctx, "analysis report generated",
		"report_id", report.ID,
		"instruments", len(symbols),
		"observations", portfolio.Returns.Len(),
		"duration", time.Since(started),
	)

	return toReportDTO(report), nil
}

// buildExcessReturns 计算超额收益。请求中给出常数年化利率时优先使用，
// 否则从无风险利率源加载并前向填充对齐。
func (m *AnalyticsManager) buildExcessReturns(ctx context.Context, req *GenerateReportRequest, returns domain.Series, start, end time.Time) (domain.Series, error) {
	if req.RiskFreeAnnual != "" {
		annual, err := decimal.NewFromString(req.RiskFreeAnnual)
		if err != nil {
			return domain.Series{}, fmt.Errorf("invalid risk_free_annual %q: %w", req.RiskFreeAnnual, err)
		}
		daily := domain.DailyRate(annual.InexactFloat64())
		rates := make([]float64, returns.Len())
		for i := range rates {
			rates[i] = daily
		}
		return domain.ExcessReturns(returns, rates)
	}

	rf, err := m.riskFree.LoadRiskFree(ctx, start, end)
	if err != nil {
		return domain.Series{}, fmt.Errorf("load risk-free series: %w", err)
	}
	aligned, err := domain.AlignRiskFree(rf, returns.Dates)
	if err != nil {
		return domain.Series{}, err
	}
	return domain.ExcessReturns(returns, aligned)
}

// parseWeights 解析十进制字符串权重，返回权重向量与确定性排序的标的列表。
func parseWeights(raw map[string]string) (domain.WeightVector, []string, error) {
	if len(raw) == 0 {
		return nil, nil, &domain.WeightError{Reason: "weights are required"}
	}
	weights := make(domain.WeightVector, len(raw))
	symbols := make([]string, 0, len(raw))
	for sym, s := range raw {
		w, err := decimal.NewFromString(s)
		if err != nil {
			return nil, nil, &domain.WeightError{Symbol: sym, Reason: fmt.Sprintf("invalid weight %q", s)}
		}
		weights[sym] = w.InexactFloat64()
		symbols = append(symbols, sym)
	}
	if err := weights.Validate(); err != nil {
		return nil, nil, err
	}
	sort.Strings(symbols)
	return weights, symbols, nil
}
