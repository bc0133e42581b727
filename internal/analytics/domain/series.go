// Package domain 提供了投资组合绩效与风险分析引擎的核心模型与算法。
// 变更说明：实现收益曲线构建、无风险利率整合、绩效指标、回撤分析、
// 分布诊断、尾部风险（VaR/CVaR）与分散化分析，全部为纯函数式批量计算。
package domain

import (
	"time"
)

// TradingDaysPerYear 年化换算使用的交易日数量。
const TradingDaysPerYear = 252

// WeightTolerance 权重之和允许的浮点误差。
const WeightTolerance = 1e-9

// Series 按日期升序排列的一维时间序列，构建后不可变。
type Series struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// NewSeries 校验日期严格递增且与数值等长后构建序列。
func NewSeries(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, &AlignmentError{Reason: "dates and values length mismatch"}
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Series{}, &AlignmentError{Reason: "dates must be strictly increasing"}
		}
	}
	return Series{Dates: dates, Values: values}, nil
}

// Len 返回序列长度。
func (s Series) Len() int { return len(s.Values) }

// Last 返回最后一个数值，空序列返回 0。
func (s Series) Last() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// PriceTable 对齐后的价格表：一行一个交易日，一列一个标的。
// 由 marketdata 清洗环节产出，进入引擎前已保证无缺失单元格。
type PriceTable struct {
	Dates   []time.Time
	Symbols []string
	Prices  map[string][]float64
}

// Validate 校验价格表的结构不变量：各列与日期索引等长、价格为正、日期严格递增。
func (t PriceTable) Validate() error {
	if len(t.Dates) < 2 {
		return &AlignmentError{Reason: "price table needs at least two dates"}
	}
	for i := 1; i < len(t.Dates); i++ {
		if !t.Dates[i].After(t.Dates[i-1]) {
			return &AlignmentError{Reason: "price table dates must be strictly increasing"}
		}
	}
	if len(t.Symbols) == 0 {
		return &AlignmentError{Reason: "price table has no instruments"}
	}
	for _, sym := range t.Symbols {
		col, ok := t.Prices[sym]
		if !ok {
			return &AlignmentError{Symbol: sym, Reason: "missing price column"}
		}
		if len(col) != len(t.Dates) {
			return &AlignmentError{Symbol: sym, Reason: "price column length differs from date index"}
		}
		for _, p := range col {
			if p <= 0 {
				return &AlignmentError{Symbol: sym, Reason: "non-positive price encountered"}
			}
		}
	}
	return nil
}

// WeightVector 标的权重映射，多头且权重之和为 1。
type WeightVector map[string]float64

// Validate 校验权重非负、非空且和为 1（容差 1e-9）。
func (w WeightVector) Validate() error {
	if len(w) == 0 {
		return &WeightError{Reason: "empty weight vector"}
	}
	sum := 0.0
	for sym, v := range w {
		if v < 0 {
			return &WeightError{Symbol: sym, Reason: "negative weight (long-only)"}
		}
		sum += v
	}
	if diff := sum - 1.0; diff > WeightTolerance || diff < -WeightTolerance {
		return &WeightError{Sum: sum, Reason: "weights must sum to 1"}
	}
	return nil
}

// RiskFreeSeries 年化收益率序列（小数表示，0.05 即 5%）。
type RiskFreeSeries struct {
	Dates  []time.Time
	Yields []float64
}
