// Package yahoo 封装 Yahoo Finance chart API 的日频历史行情下载。
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/portfolioanalytics/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// chart API 响应结构，只保留用到的字段。
type quoteSeries struct {
	Close []*float64 `json:"close"`
}

type adjCloseSeries struct {
	AdjClose []*float64 `json:"adjclose"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote    []quoteSeries    `json:"quote"`
		AdjClose []adjCloseSeries `json:"adjclose"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

// Client Yahoo Finance 行情客户端。
type Client struct {
	http *resty.Client
}

// Config 客户端配置。
type Config struct {
	BaseURL        string
	RequestTimeout int
	MaxRetries     int
}

// NewClient 创建行情客户端，失败请求按指数退避重试。
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.RequestTimeout) * time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", "portfolioanalytics/1.0")
	return &Client{http: httpClient}
}

// FetchDailyHistory 下载复权日线历史，返回逐日 (日期, 收盘价)。
// 优先使用复权收盘价，缺失时回落到原始收盘价；空观测直接跳过。
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]time.Time, []float64, error) {
	var payload chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"period1":  fmt.Sprintf("%d", start.Unix()),
			"period2":  fmt.Sprintf("%d", end.Unix()),
			"interval": "1d",
			"events":   "div,split",
		}).
		SetResult(&payload).
		ForceContentType("application/json").
		Get(fmt.Sprintf("/v8/finance/chart/%s", symbol))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("fetch %s: status %s", symbol, resp.Status())
	}
	if payload.Chart.Error != nil {
		return nil, nil, fmt.Errorf("fetch %s: %s (%s)", symbol, payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil, fmt.Errorf("fetch %s: empty chart result", symbol)
	}

	result := payload.Chart.Result[0]
	closes := selectCloses(result.Indicators.AdjClose, result.Indicators.Quote)
	if closes == nil {
		return nil, nil, fmt.Errorf("fetch %s: no close series in response", symbol)
	}
	if len(closes) != len(result.Timestamp) {
		return nil, nil, fmt.Errorf("fetch %s: %d timestamps but %d closes", symbol, len(result.Timestamp), len(closes))
	}

	dates := make([]time.Time, 0, len(result.Timestamp))
	values := make([]float64, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		dates = append(dates, day)
		values = append(values, *closes[i])
	}
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("fetch %s: no usable observations", symbol)
	}

	logger.Debug(ctx, "daily history fetched", "symbol", symbol, "observations", len(dates))
	return dates, values, nil
}

func selectCloses(adj []adjCloseSeries, quote []quoteSeries) []*float64 {
	if len(adj) > 0 && len(adj[0].AdjClose) > 0 {
		return adj[0].AdjClose
	}
	if len(quote) > 0 && len(quote[0].Close) > 0 {
		return quote[0].Close
	}
	return nil
}
