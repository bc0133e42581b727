package domain

import (
	"fmt"
	"sort"
	"time"
)

// PriceHistory 单一标的的日频收盘价历史。
type PriceHistory struct {
	Symbol string
	Dates  []time.Time
	Closes []float64
}

// NewPriceHistory 构造价格历史，要求日期严格递增且与价格等长。
// 单个价格允许为 NaN 以外的任意正数；缺失观测直接不出现在序列中。
func NewPriceHistory(symbol string, dates []time.Time, closes []float64) (PriceHistory, error) {
	if symbol == "" {
		return PriceHistory{}, fmt.Errorf("price history requires a symbol")
	}
	if len(dates) != len(closes) {
		return PriceHistory{}, fmt.Errorf("%s: %d dates but %d closes", symbol, len(dates), len(closes))
	}
	if len(dates) == 0 {
		return PriceHistory{}, fmt.Errorf("%s: empty price history", symbol)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return PriceHistory{}, fmt.Errorf("%s: dates must be strictly increasing at index %d", symbol, i)
		}
	}
	for i, c := range closes {
		if c <= 0 {
			return PriceHistory{}, fmt.Errorf("%s: non-positive close %v at %s", symbol, c, dates[i].Format("2006-01-02"))
		}
	}
	return PriceHistory{Symbol: symbol, Dates: dates, Closes: closes}, nil
}

// PriceMatrix 多标的共享日历的收盘价矩阵。
type PriceMatrix struct {
	Dates   []time.Time
	Symbols []string
	Closes  map[string][]float64
}

// AlignHistories 将多个价格历史对齐到其日期并集日历上。
// 缺口先前向填充，序列开头的缺口再用首个观测回填，
// 与交易所停牌日沿用上一收盘价的惯例一致。
func AlignHistories(histories []PriceHistory) (*PriceMatrix, error) {
	if len(histories) == 0 {
		return nil, fmt.Errorf("no price histories to align")
	}

	calendar := make(map[time.Time]struct{})
	for _, h := range histories {
		for _, d := range h.Dates {
			calendar[d] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(calendar))
	for d := range calendar {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	symbols := make([]string, 0, len(histories))
	closes := make(map[string][]float64, len(histories))
	for _, h := range histories {
		if _, dup := closes[h.Symbol]; dup {
			return nil, fmt.Errorf("duplicate history for %s", h.Symbol)
		}
		symbols = append(symbols, h.Symbol)

		column := make([]float64, len(dates))
		cursor := 0
		last := 0.0
		for i, d := range dates {
			for cursor < len(h.Dates) && !h.Dates[cursor].After(d) {
				last = h.Closes[cursor]
				cursor++
			}
			column[i] = last
		}
		// 序列起点之前没有观测可填充，用首个观测回填
		first := h.Closes[0]
		for i := range column {
			if column[i] != 0 {
				break
			}
			column[i] = first
		}
		closes[h.Symbol] = column
	}
	sort.Strings(symbols)

	return &PriceMatrix{Dates: dates, Symbols: symbols, Closes: closes}, nil
}

// Window 截取矩阵中 [start, end] 闭区间内的日期窗口。
func (m *PriceMatrix) Window(start, end time.Time) (*PriceMatrix, error) {
	lo := sort.Search(len(m.Dates), func(i int) bool { return !m.Dates[i].Before(start) })
	hi := sort.Search(len(m.Dates), func(i int) bool { return m.Dates[i].After(end) })
	if lo >= hi {
		return nil, fmt.Errorf("no observations between %s and %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	closes := make(map[string][]float64, len(m.Closes))
	for sym, column := range m.Closes {
		closes[sym] = column[lo:hi]
	}
	return &PriceMatrix{Dates: m.Dates[lo:hi], Symbols: m.Symbols, Closes: closes}, nil
}
