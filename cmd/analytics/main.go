package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/application"
	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/internal/analytics/infrastructure/marketstore"
	"github.com/wyfcoding/portfolioanalytics/internal/analytics/infrastructure/messaging"
	analyticsmysql "github.com/wyfcoding/portfolioanalytics/internal/analytics/infrastructure/persistence/mysql"
	analyticshttp "github.com/wyfcoding/portfolioanalytics/internal/analytics/interfaces/http"
	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/infrastructure/csvstore"
	"github.com/wyfcoding/portfolioanalytics/pkg/config"
	"github.com/wyfcoding/portfolioanalytics/pkg/db"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
	"github.com/wyfcoding/portfolioanalytics/pkg/metrics"
	"github.com/wyfcoding/portfolioanalytics/pkg/mq"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/analytics/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. Logger
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

	// 3. Metrics
	collector := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := collector.Register(); err != nil {
			logger.Fatal(ctx, "register metrics failed", "error", err)
		}
	}

	// 4. Database
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Collector:          collector,
	})
	if err != nil {
		logger.Fatal(ctx, "connect db failed", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(&analyticsmysql.AnalysisReportModel{}); err != nil {
		logger.Fatal(ctx, "migrate db failed", "error", err)
	}

	// 5. Infrastructure
	reportRepo := analyticsmysql.NewReportRepository(database.DB)

	files := csvstore.NewStore(cfg.MarketData.DataDir)
	market := marketstore.NewStore(files)

	var publisher domain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "create kafka producer failed", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.ReportTopic)
	} else {
		publisher = messaging.NewNoopEventPublisher()
	}

	// 6. Application
	service := application.NewAnalyticsService(reportRepo, publisher, market, market, application.AnalysisDefaults{
		ConfidenceLevels: cfg.Analytics.ConfidenceLevels,
		RollingWindows:   cfg.Analytics.RollingWindows,
	}, collector)

	// 7. Interfaces
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		started := time.Now()
		c.Next()
		collector.HTTPRequestsTotal.Inc()
		collector.HTTPRequestDuration.Observe(time.Since(started).Seconds())
	})

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	pp := r.Group("/debug/pprof")
	{
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
	}

	handler := analyticshttp.NewAnalyticsHandler(service)
	handler.RegisterRoutes(r.Group(""))

	// 8. Start
	g, gctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 9. Graceful Shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
