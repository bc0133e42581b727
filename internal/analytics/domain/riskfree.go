package domain

import (
	"math"
	"time"
)

// DailyRate 将年化收益率换算为按 252 个交易日复利的日利率。
func DailyRate(annualYield float64) float64 {
	return math.Pow(1+annualYield, 1.0/float64(TradingDaysPerYear)) - 1
}

// AlignRiskFree 将年化收益率序列对齐到目标日期索引并换算为日利率。
// 无精确匹配的日期向前取最近一条已发布的利率（慢变序列，前向填充）；
// 目标日期早于第一条观测时返回 RiskFreeMissingError。
func AlignRiskFree(rf RiskFreeSeries, target []time.Time) ([]float64, error) {
	if len(rf.Dates) == 0 {
		return nil, &RiskFreeMissingError{}
	}
	if len(rf.Dates) != len(rf.Yields) {
		return nil, &AlignmentError{Reason: "risk-free dates and yields length mismatch"}
	}

	daily := make([]float64, len(target))
	cursor := -1
	for i, date := range target {
		for cursor+1 < len(rf.Dates) && !rf.Dates[cursor+1].After(date) {
			cursor++
		}
		if cursor < 0 {
			return nil, &RiskFreeMissingError{Requested: date, FirstRate: rf.Dates[0]}
		}
		daily[i] = DailyRate(rf.Yields[cursor])
	}
	return daily, nil
}

// ExcessReturns 用对齐后的日无风险利率扣减组合收益。
func ExcessReturns(portfolio Series, dailyRF []float64) (Series, error) {
	if len(dailyRF) != portfolio.Len() {
		return Series{}, &AlignmentError{Reason: "daily risk-free series length differs from portfolio returns"}
	}
	excess := make([]float64, portfolio.Len())
	for i, r := range portfolio.Values {
		excess[i] = r - dailyRF[i]
	}
	return NewSeries(portfolio.Dates, excess)
}
