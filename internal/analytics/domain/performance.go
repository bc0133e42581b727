package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PerformanceReport 绩效度量的一次性不可变快照。
// 任一指标计算失败时整份报告作废，不输出部分结果。
type PerformanceReport struct {
	TotalReturn          float64 `json:"total_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	DailyVolatility      float64 `json:"daily_volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeDaily          float64 `json:"sharpe_daily"`
	SharpeAnnualized     float64 `json:"sharpe_annualized"`
	MaxDrawdown          float64 `json:"max_drawdown"`
}

// ComputePerformance 由组合收益、净值曲线与超额收益序列计算绩效报告。
// factor 为年化交易日系数，传 0 使用默认 252。
// 超额收益标准差为零时返回 DegenerateVolatilityError。
func ComputePerformance(returns, equity, excess Series, factor int) (*PerformanceReport, error) {
	if factor <= 0 {
		factor = TradingDaysPerYear
	}
	n := returns.Len()
	if n < 2 {
		return nil, &InsufficientSampleError{Need: 2, Got: n}
	}
	if equity.Len() != n+1 {
		return nil, &AlignmentError{Reason: "equity curve length must be returns length plus one"}
	}
	if excess.Len() != n {
		return nil, &AlignmentError{Reason: "excess return series length differs from portfolio returns"}
	}

	totalReturn := equity.Last()/equity.Values[0] - 1
	annualizedReturn := math.Pow(1+totalReturn, float64(factor)/float64(n)) - 1

	dailyVol := stat.StdDev(returns.Values, nil)
	annualizedVol := dailyVol * math.Sqrt(float64(factor))

	if isConstant(excess.Values) {
		return nil, &DegenerateVolatilityError{Metric: "sharpe ratio"}
	}
	excessStd := stat.StdDev(excess.Values, nil)
	sharpeDaily := stat.Mean(excess.Values, nil) / excessStd
	sharpeAnnualized := sharpeDaily * math.Sqrt(float64(factor))

	dd, err := AnalyzeDrawdown(equity)
	if err != nil {
		return nil, err
	}

	return &PerformanceReport{
		TotalReturn:          totalReturn,
		AnnualizedReturn:     annualizedReturn,
		DailyVolatility:      dailyVol,
		AnnualizedVolatility: annualizedVol,
		SharpeDaily:          sharpeDaily,
		SharpeAnnualized:     sharpeAnnualized,
		MaxDrawdown:          dd.MaxDrawdown,
	}, nil
}
