package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRate(t *testing.T) {
	assert.Equal(t, 0.0, DailyRate(0))
	assert.InDelta(t, math.Pow(1.05, 1.0/252)-1, DailyRate(0.05), 1e-15)
	// 五个百分点的年化对应大约两个基点的日利率
	assert.InDelta(t, 0.0001936, DailyRate(0.05), 1e-6)
}

func TestAlignRiskFree_ForwardFill(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	rf := RiskFreeSeries{
		Dates:  []time.Time{day(1), day(5), day(10)},
		Yields: []float64{0.05, 0.045, 0.04},
	}
	target := []time.Time{day(1), day(3), day(5), day(7), day(12)}

	daily, err := AlignRiskFree(rf, target)
	require.NoError(t, err)
	require.Len(t, daily, 5)

	assert.Equal(t, DailyRate(0.05), daily[0])  // 精确匹配
	assert.Equal(t, DailyRate(0.05), daily[1])  // 前向填充 3/1
	assert.Equal(t, DailyRate(0.045), daily[2]) // 精确匹配
	assert.Equal(t, DailyRate(0.045), daily[3]) // 前向填充 3/5
	assert.Equal(t, DailyRate(0.04), daily[4])  // 前向填充 3/10
}

func TestAlignRiskFree_PredatesFirstObservation(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	rf := RiskFreeSeries{
		Dates:  []time.Time{day(5)},
		Yields: []float64{0.05},
	}

	_, err := AlignRiskFree(rf, []time.Time{day(3), day(5)})
	var rerr *RiskFreeMissingError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, day(3), rerr.Requested)
	assert.Equal(t, day(5), rerr.FirstRate)
}

func TestAlignRiskFree_Empty(t *testing.T) {
	_, err := AlignRiskFree(RiskFreeSeries{}, tradingDays(3))
	var rerr *RiskFreeMissingError
	require.ErrorAs(t, err, &rerr)
}

func TestExcessReturns(t *testing.T) {
	returns := mustSeries(t, []float64{0.01, -0.005, 0.02})
	daily := []float64{0.0001, 0.0001, 0.0002}

	excess, err := ExcessReturns(returns, daily)
	require.NoError(t, err)

	assert.InDelta(t, 0.0099, excess.Values[0], 1e-12)
	assert.InDelta(t, -0.0051, excess.Values[1], 1e-12)
	assert.InDelta(t, 0.0198, excess.Values[2], 1e-12)
	assert.Equal(t, returns.Dates, excess.Dates)
}

func TestExcessReturns_LengthMismatch(t *testing.T) {
	returns := mustSeries(t, []float64{0.01, -0.005})
	_, err := ExcessReturns(returns, []float64{0.0001})
	var aerr *AlignmentError
	require.ErrorAs(t, err, &aerr)
}
