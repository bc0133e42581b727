package application

import (
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"

	"github.com/shopspring/decimal"
)

// GenerateReportRequest 生成分析报告请求 DTO。
// 权重用十进制字符串传递，避免 JSON 浮点精度问题。
type GenerateReportRequest struct {
	Weights          map[string]string `json:"weights" binding:"required"`
	Start            string            `json:"start" binding:"required"`
	End              string            `json:"end" binding:"required"`
	RiskFreeAnnual   string            `json:"risk_free_annual,omitempty"`
	ConfidenceLevels []float64         `json:"confidence_levels,omitempty"`
	RollingWindows   []int             `json:"rolling_windows,omitempty"`
}

// PerformanceDTO 绩效指标 DTO，标量指标统一输出十进制字符串。
type PerformanceDTO struct {
	TotalReturn          string `json:"total_return"`
	AnnualizedReturn     string `json:"annualized_return"`
	DailyVolatility      string `json:"daily_volatility"`
	AnnualizedVolatility string `json:"annualized_volatility"`
	SharpeDaily          string `json:"sharpe_daily"`
	SharpeAnnualized     string `json:"sharpe_annualized"`
	MaxDrawdown          string `json:"max_drawdown"`
}

// TailRiskDTO 单个 (方法, 置信度) 的尾部风险估计 DTO。
type TailRiskDTO struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	VaR        string  `json:"var"`
	CVaR       string  `json:"cvar"`
}

// SeriesDTO 时间序列 DTO，日期与取值等长。
type SeriesDTO struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// AnalysisReportDTO 完整分析报告 DTO。
type AnalysisReportDTO struct {
	ReportID  string `json:"report_id"`
	CreatedAt int64  `json:"created_at"`
	Start     string `json:"start"`
	End       string `json:"end"`

	Weights map[string]string `json:"weights"`

	Returns SeriesDTO `json:"returns"`
	Equity  SeriesDTO `json:"equity"`

	Performance       PerformanceDTO        `json:"performance"`
	Drawdown          SeriesDTO             `json:"drawdown"`
	LongestUnderwater int                   `json:"longest_underwater_days"`
	Skewness          string                `json:"skewness"`
	ExcessKurtosis    string                `json:"excess_kurtosis"`
	RollingVolatility map[int]SeriesDTO     `json:"rolling_volatility"`
	TailRisk          []TailRiskDTO         `json:"tail_risk"`
	Symbols           []string              `json:"symbols"`
	Correlations      [][]float64           `json:"correlations"`
	MarginalRisk      map[string]string     `json:"marginal_risk_contributions"`
}

// ReportSummaryDTO 报告列表摘要 DTO。
type ReportSummaryDTO struct {
	ReportID         string `json:"report_id"`
	CreatedAt        int64  `json:"created_at"`
	Start            string `json:"start"`
	End              string `json:"end"`
	TotalReturn      string `json:"total_return"`
	SharpeAnnualized string `json:"sharpe_annualized"`
	MaxDrawdown      string `json:"max_drawdown"`
}

const dateLayout = "2006-01-02"

func formatFloat(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func toSeriesDTO(s domain.Series) SeriesDTO {
	dates := make([]string, len(s.Dates))
	for i, d := range s.Dates {
		dates[i] = d.Format(dateLayout)
	}
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return SeriesDTO{Dates: dates, Values: values}
}

func toReportDTO(report *domain.AnalysisReport) *AnalysisReportDTO {
	if report == nil {
		return nil
	}

	weights := make(map[string]string, len(report.Weights))
	for sym, w := range report.Weights {
		weights[sym] = decimal.NewFromFloat(w).String()
	}

	rolling := make(map[int]SeriesDTO, len(report.Distribution.RollingVolatility))
	for w, s := range report.Distribution.RollingVolatility {
		rolling[w] = toSeriesDTO(s)
	}

	tailRisk := make([]TailRiskDTO, 0, len(report.TailRisk))
	for _, est := range report.TailRisk {
		tailRisk = append(tailRisk, TailRiskDTO{
			Method:     string(est.Method),
			Confidence: est.Confidence,
			VaR:        formatFloat(est.VaR),
			CVaR:       formatFloat(est.CVaR),
		})
	}

	marginal := make(map[string]string, len(report.Diversification.MarginalContributions))
	for sym, mcr := range report.Diversification.MarginalContributions {
		marginal[sym] = formatFloat(mcr)
	}

	return &AnalysisReportDTO{
		ReportID:  report.ID,
		CreatedAt: report.CreatedAt.Unix(),
		Start:     report.Start.Format(dateLayout),
		End:       report.End.Format(dateLayout),
		Weights:   weights,
		Returns:   toSeriesDTO(report.Returns),
		Equity:    toSeriesDTO(report.Equity),
		Performance: PerformanceDTO{
			TotalReturn:          formatFloat(report.Performance.TotalReturn),
			AnnualizedReturn:     formatFloat(report.Performance.AnnualizedReturn),
			DailyVolatility:      formatFloat(report.Performance.DailyVolatility),
			AnnualizedVolatility: formatFloat(report.Performance.AnnualizedVolatility),
			SharpeDaily:          formatFloat(report.Performance.SharpeDaily),
			SharpeAnnualized:     formatFloat(report.Performance.SharpeAnnualized),
			MaxDrawdown:          formatFloat(report.Performance.MaxDrawdown),
		},
		Drawdown:          toSeriesDTO(report.Drawdown.Series),
		LongestUnderwater: report.Drawdown.LongestUnderwater,
		Skewness:          formatFloat(report.Distribution.Skewness),
		ExcessKurtosis:    formatFloat(report.Distribution.ExcessKurtosis),
		RollingVolatility: rolling,
		TailRisk:          tailRisk,
		Symbols:           report.Diversification.Symbols,
		Correlations:      report.Diversification.Correlations,
		MarginalRisk:      marginal,
	}
}

func toSummaryDTO(s domain.ReportSummary) ReportSummaryDTO {
	return ReportSummaryDTO{
		ReportID:         s.ID,
		CreatedAt:        s.CreatedAt.Unix(),
		Start:            s.Start.Format(dateLayout),
		End:              s.End.Format(dateLayout),
		TotalReturn:      formatFloat(s.TotalReturn),
		SharpeAnnualized: formatFloat(s.SharpeAnnualized),
		MaxDrawdown:      formatFloat(s.MaxDrawdown),
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
