package domain

import (
	"fmt"
	"time"
)

// AlignmentError 标的间日期索引不一致或价格数据非法。
type AlignmentError struct {
	Symbol string
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("alignment error for %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("alignment error: %s", e.Reason)
}

// WeightError 权重向量非法：含负值或和不为 1。
type WeightError struct {
	Symbol string
	Sum    float64
	Reason string
}

func (e *WeightError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("weight error for %s: %s", e.Symbol, e.Reason)
	}
	if e.Sum != 0 {
		return fmt.Sprintf("weight error: %s (sum=%.12f)", e.Reason, e.Sum)
	}
	return fmt.Sprintf("weight error: %s", e.Reason)
}

// RiskFreeMissingError 目标日期早于第一条可用的无风险利率观测。
type RiskFreeMissingError struct {
	Requested time.Time
	FirstRate time.Time
}

func (e *RiskFreeMissingError) Error() string {
	return fmt.Sprintf("risk-free rate missing: requested %s predates first observation %s",
		e.Requested.Format("2006-01-02"), e.FirstRate.Format("2006-01-02"))
}

// DegenerateVolatilityError 零方差输入导致比率无定义。
type DegenerateVolatilityError struct {
	Metric string
}

func (e *DegenerateVolatilityError) Error() string {
	return fmt.Sprintf("degenerate volatility: zero standard deviation computing %s", e.Metric)
}

// InsufficientSampleError 样本量不足以支撑所请求的估计量。
type InsufficientSampleError struct {
	Need int
	Got  int
}

func (e *InsufficientSampleError) Error() string {
	return fmt.Sprintf("insufficient sample: need at least %d observations, got %d", e.Need, e.Got)
}

// DistributionFitError 分布参数无法从样本估计。
type DistributionFitError struct {
	Reason string
}

func (e *DistributionFitError) Error() string {
	return fmt.Sprintf("distribution fit error: %s", e.Reason)
}
