package mysql

import (
	"encoding/json"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalysisReportModel MySQL 分析报告表映射。
// 摘要指标落为独立列供列表查询，完整报告以 JSON 负载整体存取。
type AnalysisReportModel struct {
	gorm.Model
	ID               string          `gorm:"primaryKey;type:varchar(36);column:id"`
	StartDate        time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate          time.Time       `gorm:"column:end_date;type:date;not null"`
	TotalReturn      decimal.Decimal `gorm:"column:total_return;type:decimal(20,12);not null"`
	SharpeAnnualized decimal.Decimal `gorm:"column:sharpe_annualized;type:decimal(20,12);not null"`
	MaxDrawdown      decimal.Decimal `gorm:"column:max_drawdown;type:decimal(20,12);not null"`
	Payload          string          `gorm:"column:payload;type:longtext;not null"`
}

func (AnalysisReportModel) TableName() string { return "analysis_reports" }

// --- mapping helpers ---

func toAnalysisReportModel(report *domain.AnalysisReport) (*AnalysisReportModel, error) {
	if report == nil {
		return nil, nil
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return &AnalysisReportModel{
		ID:               report.ID,
		StartDate:        report.Start,
		EndDate:          report.End,
		TotalReturn:      decimal.NewFromFloat(report.Performance.TotalReturn),
		SharpeAnnualized: decimal.NewFromFloat(report.Performance.SharpeAnnualized),
		MaxDrawdown:      decimal.NewFromFloat(report.Performance.MaxDrawdown),
		Payload:          string(payload),
	}, nil
}

func toAnalysisReport(model *AnalysisReportModel) (*domain.AnalysisReport, error) {
	if model == nil {
		return nil, nil
	}
	var report domain.AnalysisReport
	if err := json.Unmarshal([]byte(model.Payload), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func toReportSummary(model *AnalysisReportModel) domain.ReportSummary {
	return domain.ReportSummary{
		ID:               model.ID,
		CreatedAt:        model.CreatedAt,
		Start:            model.StartDate,
		End:              model.EndDate,
		TotalReturn:      model.TotalReturn.InexactFloat64(),
		SharpeAnnualized: model.SharpeAnnualized.InexactFloat64(),
		MaxDrawdown:      model.MaxDrawdown.InexactFloat64(),
	}
}
