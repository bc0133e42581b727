package application

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/domain"
	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/infrastructure/csvstore"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
	"github.com/wyfcoding/portfolioanalytics/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// HistoryFetcher 日线历史行情获取接口。
type HistoryFetcher interface {
	FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]time.Time, []float64, error)
}

// DownloadRequest 下载管线请求。
type DownloadRequest struct {
	TickerFile     string
	RiskFreeTicker string
	Start          time.Time
	End            time.Time
	Concurrency    int
}

// DownloadReport 下载管线执行结果。
type DownloadReport struct {
	Requested     int      `json:"requested"`
	Succeeded     int      `json:"succeeded"`
	Failed        int      `json:"failed"`
	FailedSymbols []string `json:"failed_symbols,omitempty"`
}

// DownloadService 行情下载管线：解析清单、并发下载、清洗对齐、落盘。
type DownloadService struct {
	fetcher   HistoryFetcher
	store     *csvstore.Store
	collector *metrics.Metrics
}

// NewDownloadService 构造函数。
func NewDownloadService(fetcher HistoryFetcher, store *csvstore.Store, collector *metrics.Metrics) *DownloadService {
	return &DownloadService{fetcher: fetcher, store: store, collector: collector}
}

// Run 执行一次完整的下载管线。
// 单个标的失败不会中断整体，但全部资产失败时返回错误。
func (s *DownloadService) Run(ctx context.Context, req *DownloadRequest) (*DownloadReport, error) {
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("start %s must precede end %s",
			req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}

	f, err := os.Open(req.TickerFile)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	tickers, err := domain.ParseTickers(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("parse ticker file: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker file %s lists no instruments", req.TickerFile)
	}
	logger.Info(ctx, "ticker list loaded", "file", req.TickerFile, "count", len(tickers))

	// 无风险利率标的自动补入下载清单
	symbols := tickers
	if req.RiskFreeTicker != "" && !slices.Contains(symbols, req.RiskFreeTicker) {
		symbols = append(append([]string{}, symbols...), req.RiskFreeTicker)
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	type download struct {
		symbol string
		dates  []time.Time
		closes []float64
	}
	var (
		mu        sync.Mutex
		downloads []download
		failed    []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			dates, closes, err := s.fetcher.FetchDailyHistory(gctx, symbol, req.Start, req.End)
			if err != nil {
				logger.Warn(gctx, "download failed, skipping instrument", "symbol", symbol, "error", err)
				if s.collector != nil {
					s.collector.DownloadFailuresTotal.Inc()
				}
				mu.Lock()
				failed = append(failed, symbol)
				mu.Unlock()
				return nil
			}
			if err := s.store.SaveRawHistory(symbol, dates, closes); err != nil {
				return fmt.Errorf("save raw history for %s: %w", symbol, err)
			}
			if s.collector != nil {
				s.collector.DownloadsTotal.Inc()
			}
			mu.Lock()
			downloads = append(downloads, download{symbol: symbol, dates: dates, closes: closes})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(downloads, func(i, j int) bool { return downloads[i].symbol < downloads[j].symbol })
	sort.Strings(failed)

	// 无风险利率单独处理：chart API 以百分比报价，转为小数年化收益率
	histories := make([]domain.PriceHistory, 0, len(downloads))
	manifest := make([]csvstore.ManifestEntry, 0, len(downloads))
	for _, d := range downloads {
		manifest = append(manifest, csvstore.ManifestEntry{
			Ticker:       d.symbol,
			Observations: len(d.dates),
			FirstDate:    d.dates[0],
			LastDate:     d.dates[len(d.dates)-1],
		})

		if d.symbol == req.RiskFreeTicker {
			yields := make([]float64, len(d.closes))
			for i, q := range d.closes {
				yields[i] = q / 100
			}
			if err := s.store.SaveRiskFree(d.dates, yields); err != nil {
				return nil, fmt.Errorf("save risk-free series: %w", err)
			}
			continue
		}

		history, err := domain.NewPriceHistory(d.symbol, d.dates, d.closes)
		if err != nil {
			return nil, err
		}
		histories = append(histories, history)
	}

	if len(histories) == 0 {
		return nil, fmt.Errorf("no instrument downloads succeeded")
	}

	matrix, err := domain.AlignHistories(histories)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProcessedMatrix(matrix); err != nil {
		return nil, fmt.Errorf("save processed matrix: %w", err)
	}
	if err := s.store.SaveManifest(manifest); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	report := &DownloadReport{
		Requested:     len(symbols),
		Succeeded:     len(downloads),
		Failed:        len(failed),
		FailedSymbols: failed,
	}
	logger.Info(ctx, "download pipeline finished",
		"requested", report.Requested,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}
