package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradingDays(n int) []time.Time {
	dates := make([]time.Time, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

func singleAssetTable(prices []float64) PriceTable {
	return PriceTable{
		Dates:   tradingDays(len(prices)),
		Symbols: []string{"SPY"},
		Prices:  map[string][]float64{"SPY": prices},
	}
}

func TestBuildPortfolioSeries_SingleAsset(t *testing.T) {
	table := singleAssetTable([]float64{100, 102, 101, 104, 103})

	ps, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.0})
	require.NoError(t, err)

	expectedReturns := []float64{0.02, -0.00980392, 0.02970297, -0.00961538}
	require.Equal(t, len(expectedReturns), ps.Returns.Len())
	for i, want := range expectedReturns {
		assert.InDelta(t, want, ps.Returns.Values[i], 1e-7, "return %d", i)
	}

	// 单标的净值曲线等于价格对首日的归一化
	expectedEquity := []float64{1.0, 1.02, 1.01, 1.04, 1.03}
	require.Equal(t, len(expectedEquity), ps.Equity.Len())
	assert.Equal(t, 1.0, ps.Equity.Values[0])
	for i, want := range expectedEquity {
		assert.InDelta(t, want, ps.Equity.Values[i], 1e-9, "equity %d", i)
	}

	// 复利恒等式 equity[t] = equity[t-1] * (1 + r[t])
	for i := 0; i < ps.Returns.Len(); i++ {
		assert.Equal(t, ps.Equity.Values[i]*(1+ps.Returns.Values[i]), ps.Equity.Values[i+1])
	}

	// 收益序列从首个产生收益的日期开始
	assert.Equal(t, table.Dates[1], ps.Returns.Dates[0])
	assert.Equal(t, table.Dates[0], ps.Equity.Dates[0])
}

func TestBuildPortfolioSeries_MultiAsset(t *testing.T) {
	dates := tradingDays(4)
	table := PriceTable{
		Dates:   dates,
		Symbols: []string{"SPY", "TLT"},
		Prices: map[string][]float64{
			"SPY": {100, 110, 99, 108.9},
			"TLT": {50, 50, 55, 44},
		},
	}

	ps, err := BuildPortfolioSeries(table, WeightVector{"SPY": 0.6, "TLT": 0.4})
	require.NoError(t, err)

	// 0.6*10% + 0.4*0% = 6%
	assert.InDelta(t, 0.06, ps.Returns.Values[0], 1e-12)
	// 0.6*(-10%) + 0.4*10% = -2%
	assert.InDelta(t, -0.02, ps.Returns.Values[1], 1e-12)
	// 0.6*10% + 0.4*(-20%) = -2%
	assert.InDelta(t, -0.02, ps.Returns.Values[2], 1e-12)
}

func TestBuildPortfolioSeries_WeightValidation(t *testing.T) {
	table := singleAssetTable([]float64{100, 101, 102})

	t.Run("sum below one", func(t *testing.T) {
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 0.9})
		var werr *WeightError
		require.ErrorAs(t, err, &werr)
	})

	t.Run("negative weight", func(t *testing.T) {
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.5, "TLT": -0.5})
		var werr *WeightError
		require.ErrorAs(t, err, &werr)
	})

	t.Run("within tolerance", func(t *testing.T) {
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.0 + 5e-10})
		require.NoError(t, err)
	})

	t.Run("outside tolerance", func(t *testing.T) {
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.0 + 1e-6})
		var werr *WeightError
		require.ErrorAs(t, err, &werr)
	})
}

func TestBuildPortfolioSeries_AlignmentValidation(t *testing.T) {
	t.Run("non-positive price", func(t *testing.T) {
		table := singleAssetTable([]float64{100, 0, 102})
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.0})
		var aerr *AlignmentError
		require.ErrorAs(t, err, &aerr)
	})

	t.Run("column length mismatch", func(t *testing.T) {
		table := PriceTable{
			Dates:   tradingDays(3),
			Symbols: []string{"SPY", "TLT"},
			Prices: map[string][]float64{
				"SPY": {100, 101, 102},
				"TLT": {50, 51},
			},
		}
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 0.5, "TLT": 0.5})
		var aerr *AlignmentError
		require.ErrorAs(t, err, &aerr)
	})

	t.Run("weighted instrument missing", func(t *testing.T) {
		table := singleAssetTable([]float64{100, 101, 102})
		_, err := BuildPortfolioSeries(table, WeightVector{"QQQ": 1.0})
		var aerr *AlignmentError
		require.ErrorAs(t, err, &aerr)
	})

	t.Run("dates not increasing", func(t *testing.T) {
		dates := tradingDays(3)
		dates[2] = dates[1]
		table := PriceTable{
			Dates:   dates,
			Symbols: []string{"SPY"},
			Prices:  map[string][]float64{"SPY": {100, 101, 102}},
		}
		_, err := BuildPortfolioSeries(table, WeightVector{"SPY": 1.0})
		var aerr *AlignmentError
		require.ErrorAs(t, err, &aerr)
	})
}
