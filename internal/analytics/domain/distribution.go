package domain

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultRollingWindows 滚动波动率的默认窗口集合。
var DefaultRollingWindows = []int{30, 60, 90}

// DistributionDiagnostics 收益分布诊断：全样本偏度/超额峰度与各窗口滚动波动率。
type DistributionDiagnostics struct {
	Skewness          float64        `json:"skewness"`
	ExcessKurtosis    float64        `json:"excess_kurtosis"`
	RollingVolatility map[int]Series `json:"rolling_volatility"`
}

// SampleSkewness 偏差修正的样本偏度估计量 G1，要求 n >= 3。
func SampleSkewness(values []float64) (float64, error) {
	n := len(values)
	if n < 3 {
		return 0, &InsufficientSampleError{Need: 3, Got: n}
	}
	if isConstant(values) {
		return 0, &DegenerateVolatilityError{Metric: "skewness"}
	}
	mean := stat.Mean(values, nil)
	var m2, m3 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	fn := float64(n)
	m2 /= fn
	m3 /= fn
	if m2 == 0 {
		return 0, &DegenerateVolatilityError{Metric: "skewness"}
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(fn*(fn-1)) / (fn - 2), nil
}

// SampleExcessKurtosis 偏差修正的样本超额峰度估计量 G2，要求 n >= 4。
func SampleExcessKurtosis(values []float64) (float64, error) {
	n := len(values)
	if n < 4 {
		return 0, &InsufficientSampleError{Need: 4, Got: n}
	}
	if isConstant(values) {
		return 0, &DegenerateVolatilityError{Metric: "kurtosis"}
	}
	mean := stat.Mean(values, nil)
	var m2, m4 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	fn := float64(n)
	m2 /= fn
	m4 /= fn
	if m2 == 0 {
		return 0, &DegenerateVolatilityError{Metric: "kurtosis"}
	}
	g2 := m4/(m2*m2) - 3
	return ((fn-1)/((fn-2)*(fn-3))) * ((fn+1)*g2 + 6), nil
}

// RollingVolatility 计算窗口 w 的滚动样本标准差序列。
// 前 w-1 个点无定义，直接省略，不做零填充。
func RollingVolatility(returns Series, window int) (Series, error) {
	if window < 2 {
		return Series{}, &InsufficientSampleError{Need: 2, Got: window}
	}
	n := returns.Len()
	if n < window {
		return Series{}, &InsufficientSampleError{Need: window, Got: n}
	}
	dates := make([]time.Time, 0, n-window+1)
	values := make([]float64, 0, n-window+1)
	for t := window; t <= n; t++ {
		dates = append(dates, returns.Dates[t-1])
		values = append(values, stat.StdDev(returns.Values[t-window:t], nil))
	}
	return NewSeries(dates, values)
}

// ComputeDistribution 计算全样本偏度/峰度与各窗口滚动波动率。
// 样本长度不足某一窗口时跳过该窗口而非报错，窗口集合按升序输出。
func ComputeDistribution(returns Series, windows []int) (*DistributionDiagnostics, error) {
	if len(windows) == 0 {
		windows = DefaultRollingWindows
	}
	skew, err := SampleSkewness(returns.Values)
	if err != nil {
		return nil, err
	}
	kurt, err := SampleExcessKurtosis(returns.Values)
	if err != nil {
		return nil, err
	}

	sorted := make([]int, len(windows))
	copy(sorted, windows)
	sort.Ints(sorted)

	rolling := make(map[int]Series, len(sorted))
	for _, w := range sorted {
		if returns.Len() < w {
			continue
		}
		series, err := RollingVolatility(returns, w)
		if err != nil {
			return nil, err
		}
		rolling[w] = series
	}

	return &DistributionDiagnostics{
		Skewness:          skew,
		ExcessKurtosis:    kurt,
		RollingVolatility: rolling,
	}, nil
}
