package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MrEthical07/stackguard"
	"github.com/MrEthical07/stackguard/credentials/postgres"
	"github.com/MrEthical07/stackguard/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func initCredentials(ctx context.Context, cfg *config.Config) (*postgres.Store, error) {
	store, err := postgres.Open(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

// initAuditSink ships events to Kafka when brokers are configured and to
// stdout as JSON lines otherwise. Every event is also logged.
func initAuditSink(cfg *config.Config, logger *zap.Logger) (stackguard.AuditSink, func()) {
	zapSink := stackguard.NewZapSink(logger)
	if len(cfg.Kafka.Brokers) == 0 {
		return stackguard.MultiSink{zapSink, stackguard.NewJSONWriterSink(os.Stdout)}, func() {}
	}

	kafkaSink := stackguard.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	return stackguard.MultiSink{zapSink, kafkaSink}, func() {
		if err := kafkaSink.Close(); err != nil {
			logger.Warn("close audit writer", zap.Error(err))
		}
	}
}

func buildEngine(
	cfg *config.Config,
	logger *zap.Logger,
	rdb redis.UniversalClient,
	creds stackguard.CredentialStore,
	sink stackguard.AuditSink,
) (*stackguard.Engine, error) {
	return stackguard.New().
		WithConfig(cfg.AsEngineConfig()).
		WithRedis(rdb).
		WithCredentialStore(creds).
		WithLogger(logger).
		WithAuditSink(sink).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
}
