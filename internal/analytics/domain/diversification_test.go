package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diversificationFixture() ([]string, map[string][]float64, WeightVector, []float64) {
	symbols := []string{"SPY", "TLT"}
	assetReturns := map[string][]float64{
		"SPY": {0.010, -0.020, 0.015, 0.005, -0.010, 0.020, -0.005, 0.012},
		"TLT": {-0.004, 0.008, -0.006, 0.002, 0.005, -0.010, 0.003, -0.002},
	}
	weights := WeightVector{"SPY": 0.6, "TLT": 0.4}

	portfolio := make([]float64, len(assetReturns["SPY"]))
	for i := range portfolio {
		portfolio[i] = 0.6*assetReturns["SPY"][i] + 0.4*assetReturns["TLT"][i]
	}
	return symbols, assetReturns, weights, portfolio
}

func TestComputeDiversification(t *testing.T) {
	symbols, assetReturns, weights, portfolio := diversificationFixture()

	result, err := ComputeDiversification(symbols, assetReturns, weights, portfolio)
	require.NoError(t, err)
	require.Equal(t, symbols, result.Symbols)

	// 相关矩阵对角为 1、对称且各元素落在 [-1, 1]
	k := len(symbols)
	require.Len(t, result.Correlations, k)
	for i := 0; i < k; i++ {
		require.Len(t, result.Correlations[i], k)
		assert.Equal(t, 1.0, result.Correlations[i][i])
		for j := 0; j < k; j++ {
			assert.Equal(t, result.Correlations[i][j], result.Correlations[j][i])
			assert.GreaterOrEqual(t, result.Correlations[i][j], -1.0)
			assert.LessOrEqual(t, result.Correlations[i][j], 1.0)
		}
	}

	// 股债负相关的样本设计
	assert.Less(t, result.Correlations[0][1], 0.0)

	// 边际风险贡献之和恒为 1
	sum := 0.0
	for _, sym := range symbols {
		sum += result.MarginalContributions[sym]
	}
	assert.InDelta(t, 1.0, sum, MCRTolerance)
}

func TestComputeDiversification_IdenticalAssets(t *testing.T) {
	// 两个标的收益完全一致时组合退化为单一资产，MCR_i 退化为权重本身
	base := []float64{0.010, -0.020, 0.015, 0.005, -0.010, 0.020}
	symbols := []string{"A", "B"}
	assetReturns := map[string][]float64{"A": base, "B": base}
	weights := WeightVector{"A": 0.7, "B": 0.3}

	result, err := ComputeDiversification(symbols, assetReturns, weights, base)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Correlations[0][1], 1e-12)
	assert.InDelta(t, 0.7, result.MarginalContributions["A"], 1e-12)
	assert.InDelta(t, 0.3, result.MarginalContributions["B"], 1e-12)
}

func TestComputeDiversification_Validation(t *testing.T) {
	symbols, assetReturns, weights, portfolio := diversificationFixture()

	t.Run("missing return series", func(t *testing.T) {
		_, err := ComputeDiversification([]string{"SPY", "GLD"}, assetReturns, WeightVector{"SPY": 0.6, "GLD": 0.4}, portfolio)
		var alignErr *AlignmentError
		require.ErrorAs(t, err, &alignErr)
		assert.Equal(t, "GLD", alignErr.Symbol)
	})

	t.Run("length mismatch", func(t *testing.T) {
		short := map[string][]float64{
			"SPY": assetReturns["SPY"],
			"TLT": assetReturns["TLT"][:4],
		}
		_, err := ComputeDiversification(symbols, short, weights, portfolio)
		var alignErr *AlignmentError
		require.ErrorAs(t, err, &alignErr)
		assert.Equal(t, "TLT", alignErr.Symbol)
	})

	t.Run("invalid weights", func(t *testing.T) {
		_, err := ComputeDiversification(symbols, assetReturns, WeightVector{"SPY": 0.6, "TLT": 0.3}, portfolio)
		var weightErr *WeightError
		require.ErrorAs(t, err, &weightErr)
	})

	t.Run("no instruments", func(t *testing.T) {
		_, err := ComputeDiversification(nil, assetReturns, weights, portfolio)
		var alignErr *AlignmentError
		require.ErrorAs(t, err, &alignErr)
	})

	t.Run("portfolio too short", func(t *testing.T) {
		_, err := ComputeDiversification(symbols, assetReturns, weights, portfolio[:1])
		var sampleErr *InsufficientSampleError
		require.ErrorAs(t, err, &sampleErr)
	})

	t.Run("constant portfolio", func(t *testing.T) {
		flat := []float64{0.01, 0.01, 0.01, 0.01}
		flatAssets := map[string][]float64{"SPY": flat, "TLT": flat}
		_, err := ComputeDiversification(symbols, flatAssets, weights, flat)
		var degenErr *DegenerateVolatilityError
		require.ErrorAs(t, err, &degenErr)
	})
}
