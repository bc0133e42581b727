// Package marketstore 将已处理的行情文件适配为分析引擎的数据源。
package marketstore

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/infrastructure/csvstore"
)

// Store 基于文件系统行情库的价格与无风险利率数据源。
type Store struct {
	files *csvstore.Store
}

// NewStore 创建数据源适配器。
func NewStore(files *csvstore.Store) *Store {
	return &Store{files: files}
}

// LoadPrices 加载指定标的与日期区间的收盘价矩阵。
// 请求的标的必须全部存在于已处理矩阵中。
func (s *Store) LoadPrices(ctx context.Context, symbols []string, start, end time.Time) (domain.PriceTable, error) {
	matrix, err := s.files.LoadProcessedMatrix()
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("load processed prices: %w", err)
	}

	window, err := matrix.Window(start, end)
	if err != nil {
		return domain.PriceTable{}, err
	}

	prices := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		column, ok := window.Closes[sym]
		if !ok {
			return domain.PriceTable{}, &domain.AlignmentError{Symbol: sym, Reason: "instrument not present in processed prices"}
		}
		prices[sym] = column
	}

	return domain.PriceTable{
		Dates:   window.Dates,
		Symbols: symbols,
		Prices:  prices,
	}, nil
}

// LoadRiskFree 加载指定日期区间的无风险年化收益率序列。
// 区间起点之前的最后一条观测一并保留，供前向填充使用。
func (s *Store) LoadRiskFree(ctx context.Context, start, end time.Time) (domain.RiskFreeSeries, error) {
	dates, yields, err := s.files.LoadRiskFree()
	if err != nil {
		return domain.RiskFreeSeries{}, fmt.Errorf("load risk-free series: %w", err)
	}

	lo := 0
	for i, d := range dates {
		if d.After(start) {
			break
		}
		lo = i
	}
	hi := len(dates)
	for hi > lo && dates[hi-1].After(end) {
		hi--
	}
	if lo >= hi {
		return domain.RiskFreeSeries{}, fmt.Errorf("no risk-free observations between %s and %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return domain.RiskFreeSeries{Dates: dates[lo:hi], Yields: yields[lo:hi]}, nil
}
