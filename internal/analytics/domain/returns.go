package domain

import (
	"time"
)

// InstrumentReturns 从价格表逐列计算单标的简单收益序列。
// 返回的各序列共享同一日期索引（价格表日期去掉首日）。
func InstrumentReturns(table PriceTable) (map[string][]float64, []time.Time, error) {
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}
	n := len(table.Dates) - 1
	dates := make([]time.Time, n)
	copy(dates, table.Dates[1:])

	returns := make(map[string][]float64, len(table.Symbols))
	for _, sym := range table.Symbols {
		prices := table.Prices[sym]
		col := make([]float64, n)
		for i := 1; i < len(prices); i++ {
			col[i-1] = prices[i]/prices[i-1] - 1
		}
		returns[sym] = col
	}
	return returns, dates, nil
}

// PortfolioSeries 固定权重组合的收益序列与净值曲线。
// Equity 以价格表首日为基准 1.0，长度比 Returns 多一。
type PortfolioSeries struct {
	Returns Series
	Equity  Series
}

// BuildPortfolioSeries 将对齐价格表与权重向量聚合为组合收益序列与净值曲线。
// 权重非法返回 WeightError；价格表非法或权重引用缺失列返回 AlignmentError。
func BuildPortfolioSeries(table PriceTable, weights WeightVector) (*PortfolioSeries, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	assetReturns, dates, err := InstrumentReturns(table)
	if err != nil {
		return nil, err
	}
	for sym := range weights {
		if _, ok := assetReturns[sym]; !ok {
			return nil, &AlignmentError{Symbol: sym, Reason: "weighted instrument absent from price table"}
		}
	}

	n := len(dates)
	portfolio := make([]float64, n)
	for sym, w := range weights {
		col := assetReturns[sym]
		for i := 0; i < n; i++ {
			portfolio[i] += w * col[i]
		}
	}

	equityDates := make([]time.Time, len(table.Dates))
	copy(equityDates, table.Dates)
	equity := make([]float64, n+1)
	equity[0] = 1.0
	for i := 0; i < n; i++ {
		equity[i+1] = equity[i] * (1 + portfolio[i])
	}

	returns, err := NewSeries(dates, portfolio)
	if err != nil {
		return nil, err
	}
	equityCurve, err := NewSeries(equityDates, equity)
	if err != nil {
		return nil, err
	}
	return &PortfolioSeries{Returns: returns, Equity: equityCurve}, nil
}
