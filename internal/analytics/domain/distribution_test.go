package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSkewness_Symmetric(t *testing.T) {
	// 关于均值对称的样本三阶中心矩为零
	skew, err := SampleSkewness([]float64{-2, -1, 0, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, skew, 1e-12)
}

func TestSampleSkewness_RightTail(t *testing.T) {
	skew, err := SampleSkewness([]float64{-0.01, -0.01, -0.01, -0.01, 0.08})
	require.NoError(t, err)
	assert.Greater(t, skew, 0.0)
}

func TestSampleExcessKurtosis_Platykurtic(t *testing.T) {
	// n=5, m2=2, m4=6.8, g2=-1.3, G2=(4/6)*(6*(-1.3)+6)=-1.2
	kurt, err := SampleExcessKurtosis([]float64{-2, -1, 0, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, -1.2, kurt, 1e-12)
}

func TestSampleMoments_Errors(t *testing.T) {
	t.Run("skewness sample too small", func(t *testing.T) {
		_, err := SampleSkewness([]float64{0.01, 0.02})
		var sampleErr *InsufficientSampleError
		require.ErrorAs(t, err, &sampleErr)
		assert.Equal(t, 3, sampleErr.Need)
	})
	t.Run("kurtosis sample too small", func(t *testing.T) {
		_, err := SampleExcessKurtosis([]float64{0.01, 0.02, 0.03})
		var sampleErr *InsufficientSampleError
		require.ErrorAs(t, err, &sampleErr)
		assert.Equal(t, 4, sampleErr.Need)
	})
	t.Run("constant series", func(t *testing.T) {
		flat := []float64{0.01, 0.01, 0.01, 0.01, 0.01}
		var degenErr *DegenerateVolatilityError
		_, err := SampleSkewness(flat)
		require.ErrorAs(t, err, &degenErr)
		_, err = SampleExcessKurtosis(flat)
		require.ErrorAs(t, err, &degenErr)
	})
}

func TestRollingVolatility(t *testing.T) {
	returns, err := NewSeries(tradingDays(5), []float64{0.01, 0.02, 0.03, 0.02, 0.01})
	require.NoError(t, err)

	rolling, err := RollingVolatility(returns, 3)
	require.NoError(t, err)

	// 前 window-1 个点无定义，输出 n-window+1 个点
	require.Equal(t, 3, rolling.Len())
	assert.Equal(t, returns.Dates[2], rolling.Dates[0])
	assert.Equal(t, returns.Dates[4], rolling.Dates[2])

	expected := []float64{0.01, 0.005773502691896258, 0.01}
	for i, want := range expected {
		assert.InDelta(t, want, rolling.Values[i], 1e-12, "window %d", i)
	}
}

func TestRollingVolatility_Errors(t *testing.T) {
	returns, err := NewSeries(tradingDays(3), []float64{0.01, 0.02, 0.03})
	require.NoError(t, err)

	var sampleErr *InsufficientSampleError
	_, err = RollingVolatility(returns, 1)
	require.ErrorAs(t, err, &sampleErr)

	_, err = RollingVolatility(returns, 5)
	require.ErrorAs(t, err, &sampleErr)
	assert.Equal(t, 5, sampleErr.Need)
	assert.Equal(t, 3, sampleErr.Got)
}

func TestComputeDistribution_SkipsOversizedWindows(t *testing.T) {
	returns, err := NewSeries(tradingDays(5), []float64{0.01, -0.02, 0.03, -0.01, 0.02})
	require.NoError(t, err)

	diag, err := ComputeDistribution(returns, []int{10, 3})
	require.NoError(t, err)

	// 样本不足 10 个点时静默跳过该窗口
	require.Contains(t, diag.RollingVolatility, 3)
	assert.NotContains(t, diag.RollingVolatility, 10)
	assert.Equal(t, 3, diag.RollingVolatility[3].Len())
}

func TestComputeDistribution_DefaultWindows(t *testing.T) {
	values := make([]float64, 90)
	for i := range values {
		values[i] = 0.01 * float64(i%7-3)
	}
	returns, err := NewSeries(tradingDays(len(values)), values)
	require.NoError(t, err)

	diag, err := ComputeDistribution(returns, nil)
	require.NoError(t, err)

	for _, w := range DefaultRollingWindows {
		require.Contains(t, diag.RollingVolatility, w)
		assert.Equal(t, len(values)-w+1, diag.RollingVolatility[w].Len())
	}
}
