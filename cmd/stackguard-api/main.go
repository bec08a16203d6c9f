package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrEthical07/stackguard/internal/config"
	"github.com/MrEthical07/stackguard/internal/httpapi"
	"github.com/MrEthical07/stackguard/internal/obs"
	"github.com/MrEthical07/stackguard/metrics/export/prometheus"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/stackguard-api.yaml", "path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting stackguard-api", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))

	rdb, err := initRedis(rootCtx, cfg)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	creds, err := initCredentials(rootCtx, cfg)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer func() { _ = creds.Close() }()

	sink, closeSink := initAuditSink(cfg, logger)
	defer closeSink()

	engine, err := buildEngine(cfg, logger, rdb, creds, sink)
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}
	for _, w := range engine.SecurityReport().Warnings {
		logger.Warn("security posture", zap.String("warning", w))
	}

	router := httpapi.NewRouter(engine, httpapi.RouterConfig{
		Logger:         logger,
		MetricsHandler: prometheus.Handler(prometheus.NewCollector(engine)),
	})

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}
