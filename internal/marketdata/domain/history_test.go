package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPriceHistory(t *testing.T) {
	h, err := NewPriceHistory("SPY", []time.Time{day(1), day(2)}, []float64{100, 101})
	require.NoError(t, err)
	assert.Equal(t, "SPY", h.Symbol)
	assert.Len(t, h.Closes, 2)

	t.Run("empty symbol", func(t *testing.T) {
		_, err := NewPriceHistory("", []time.Time{day(1)}, []float64{100})
		assert.Error(t, err)
	})
	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewPriceHistory("SPY", []time.Time{day(1), day(2)}, []float64{100})
		assert.Error(t, err)
	})
	t.Run("empty history", func(t *testing.T) {
		_, err := NewPriceHistory("SPY", nil, nil)
		assert.Error(t, err)
	})
	t.Run("unsorted dates", func(t *testing.T) {
		_, err := NewPriceHistory("SPY", []time.Time{day(2), day(1)}, []float64{100, 101})
		assert.Error(t, err)
	})
	t.Run("duplicate dates", func(t *testing.T) {
		_, err := NewPriceHistory("SPY", []time.Time{day(1), day(1)}, []float64{100, 101})
		assert.Error(t, err)
	})
	t.Run("non-positive close", func(t *testing.T) {
		_, err := NewPriceHistory("SPY", []time.Time{day(1), day(2)}, []float64{100, 0})
		assert.Error(t, err)
	})
}

func TestAlignHistories(t *testing.T) {
	// SPY 在 1/2/3 日有观测，TLT 缺 1 日与 3 日
	spy, err := NewPriceHistory("SPY", []time.Time{day(1), day(2), day(3)}, []float64{100, 101, 102})
	require.NoError(t, err)
	tlt, err := NewPriceHistory("TLT", []time.Time{day(2), day(4)}, []float64{50, 51})
	require.NoError(t, err)

	m, err := AlignHistories([]PriceHistory{tlt, spy})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(1), day(2), day(3), day(4)}, m.Dates)
	assert.Equal(t, []string{"SPY", "TLT"}, m.Symbols)

	// SPY 的 4 日缺口前向填充 3 日收盘
	assert.Equal(t, []float64{100, 101, 102, 102}, m.Closes["SPY"])
	// TLT 开头缺口用首个观测回填，3 日沿用 2 日收盘
	assert.Equal(t, []float64{50, 50, 50, 51}, m.Closes["TLT"])
}

func TestAlignHistories_Errors(t *testing.T) {
	_, err := AlignHistories(nil)
	assert.Error(t, err)

	spy, err := NewPriceHistory("SPY", []time.Time{day(1)}, []float64{100})
	require.NoError(t, err)
	_, err = AlignHistories([]PriceHistory{spy, spy})
	assert.ErrorContains(t, err, "duplicate")
}

func TestPriceMatrixWindow(t *testing.T) {
	spy, err := NewPriceHistory("SPY", []time.Time{day(1), day(2), day(3), day(4)}, []float64{100, 101, 102, 103})
	require.NoError(t, err)
	m, err := AlignHistories([]PriceHistory{spy})
	require.NoError(t, err)

	w, err := m.Window(day(2), day(3))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2), day(3)}, w.Dates)
	assert.Equal(t, []float64{101, 102}, w.Closes["SPY"])

	// 窗口边界不要求恰好落在观测日上
	w, err = m.Window(day(1).Add(-time.Hour), day(2).Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, w.Dates, 2)

	_, err = m.Window(day(10), day(20))
	assert.Error(t, err)
	_, err = m.Window(day(3), day(2))
	assert.Error(t, err)
}
