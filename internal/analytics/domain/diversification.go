package domain

import (
	"gonum.org/v1/gonum/stat"
)

// MCRTolerance 边际风险贡献之和允许的浮点误差。
const MCRTolerance = 1e-6

// DiversificationResult 分散化分析结果：相关系数矩阵与边际风险贡献。
type DiversificationResult struct {
	Symbols               []string           `json:"symbols"`
	Correlations          [][]float64        `json:"correlations"`
	MarginalContributions map[string]float64 `json:"marginal_contributions"`
}

// ComputeDiversification 计算标的间 Pearson 相关矩阵与各标的对组合方差的边际贡献。
// MCR_i = w_i * Cov(r_i, r_p) / Var(r_p)，各项之和恒为 1（容差 1e-6）。
// 各标的收益序列必须共享同一日期索引，长度不一致返回 AlignmentError。
func ComputeDiversification(symbols []string, assetReturns map[string][]float64, weights WeightVector, portfolio []float64) (*DiversificationResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, &AlignmentError{Reason: "no instruments for diversification analysis"}
	}
	n := len(portfolio)
	if n < 2 {
		return nil, &InsufficientSampleError{Need: 2, Got: n}
	}
	for _, sym := range symbols {
		col, ok := assetReturns[sym]
		if !ok {
			return nil, &AlignmentError{Symbol: sym, Reason: "missing return series"}
		}
		if len(col) != n {
			return nil, &AlignmentError{Symbol: sym, Reason: "return series length differs from portfolio"}
		}
	}

	if isConstant(portfolio) {
		return nil, &DegenerateVolatilityError{Metric: "marginal risk contribution"}
	}
	portfolioVar := stat.Variance(portfolio, nil)

	k := len(symbols)
	correlations := make([][]float64, k)
	for i := range correlations {
		correlations[i] = make([]float64, k)
		correlations[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			rho := stat.Correlation(assetReturns[symbols[i]], assetReturns[symbols[j]], nil)
			correlations[i][j] = rho
			correlations[j][i] = rho
		}
	}

	contributions := make(map[string]float64, k)
	for _, sym := range symbols {
		w := weights[sym]
		cov := stat.Covariance(assetReturns[sym], portfolio, nil)
		contributions[sym] = w * cov / portfolioVar
	}

	return &DiversificationResult{
		Symbols:               symbols,
		Correlations:          correlations,
		MarginalContributions: contributions,
	}, nil
}
