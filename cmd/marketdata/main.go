package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/application"
	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/infrastructure/csvstore"
	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/infrastructure/yahoo"
	"github.com/wyfcoding/portfolioanalytics/pkg/config"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		configPath     string
		startDate      string
		endDate        string
		riskFreeTicker string
	)
	flag.StringVar(&configPath, "config", "configs/marketdata/config.toml", "path to config file")
	flag.StringVar(&startDate, "start", "", "download start date (YYYY-MM-DD)")
	flag.StringVar(&endDate, "end", "", "download end date (YYYY-MM-DD)")
	flag.StringVar(&riskFreeTicker, "risk-free", "^IRX", "risk-free rate ticker, empty to disable")
	flag.Parse()

	// 日期是必填项，保证分析结果可复现
	if startDate == "" || endDate == "" {
		fmt.Fprintln(os.Stderr, "both -start and -end are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	ctx := context.Background()

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		logger.Fatal(ctx, "invalid start date", "start", startDate, "error", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		logger.Fatal(ctx, "invalid end date", "end", endDate, "error", err)
	}

	client := yahoo.NewClient(yahoo.Config{
		BaseURL:        cfg.MarketData.BaseURL,
		RequestTimeout: cfg.MarketData.RequestTimeout,
		MaxRetries:     cfg.MarketData.MaxRetries,
	})
	store := csvstore.NewStore(cfg.MarketData.DataDir)
	service := application.NewDownloadService(client, store, nil)

	report, err := service.Run(ctx, &application.DownloadRequest{
		TickerFile:     cfg.MarketData.TickerFile,
		RiskFreeTicker: riskFreeTicker,
		Start:          start,
		End:            end,
		Concurrency:    cfg.MarketData.Concurrency,
	})
	if err != nil {
		logger.Fatal(ctx, "download pipeline failed", "error", err)
	}

	logger.Info(ctx, "download pipeline completed",
		"requested", report.Requested,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	if report.Failed > 0 {
		logger.Warn(ctx, "some instruments failed to download", "symbols", report.FailedSymbols)
	}
}
