package domain

import (
	"context"
	"time"
)

// AnalysisReport 一次完整分析的不可变聚合根。
// 报告是其输入的纯函数快照，重算只会产生新的报告，不存在原地更新。
type AnalysisReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	Weights WeightVector `json:"weights"`

	Returns Series `json:"returns"`
	Equity  Series `json:"equity"`

	Performance     PerformanceReport       `json:"performance"`
	Drawdown        DrawdownResult          `json:"drawdown"`
	Distribution    DistributionDiagnostics `json:"distribution"`
	TailRisk        []TailRiskEstimate      `json:"tail_risk"`
	Diversification DiversificationResult   `json:"diversification"`
}

// ReportSummary 报告列表用的轻量摘要。
type ReportSummary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	TotalReturn      float64   `json:"total_return"`
	SharpeAnnualized float64   `json:"sharpe_annualized"`
	MaxDrawdown      float64   `json:"max_drawdown"`
}

// Summary 提取报告摘要。
func (r *AnalysisReport) Summary() ReportSummary {
	return ReportSummary{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		Start:            r.Start,
		End:              r.End,
		TotalReturn:      r.Performance.TotalReturn,
		SharpeAnnualized: r.Performance.SharpeAnnualized,
		MaxDrawdown:      r.Performance.MaxDrawdown,
	}
}

// ReportRepository 分析报告仓储。
type ReportRepository interface {
	Save(ctx context.Context, report *AnalysisReport) error
	FindByID(ctx context.Context, id string) (*AnalysisReport, error)
	List(ctx context.Context, limit, offset int) ([]ReportSummary, error)
}

// ReportCompletedEvent 报告完成事件，供下游看板/报表消费。
type ReportCompletedEvent struct {
	ReportID         string    `json:"report_id"`
	CreatedAt        time.Time `json:"created_at"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	TotalReturn      float64   `json:"total_return"`
	SharpeAnnualized float64   `json:"sharpe_annualized"`
	MaxDrawdown      float64   `json:"max_drawdown"`
}

// EventPublisher 领域事件发布接口。
type EventPublisher interface {
	PublishReportCompleted(ctx context.Context, event ReportCompletedEvent) error
}
