package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lukitun/Jahbreak/internal/setup"
	applog "github.com/lukitun/Jahbreak/internal/setup/logger"
	"github.com/lukitun/Jahbreak/internal/stream"
	"github.com/lukitun/Jahbreak/internal/stream/redis"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := setup.LoadConfig()
	logger := applog.New(cfg.LogLevel)
	if envErr != nil {
		logger.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTelemetry := setup.SetupTelemetry(ctx, cfg, &logger)
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	redisCfg := redis.NewRedisStreamConfig(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.SampleStream,
		cfg.ResultStream,
		cfg.ConsumerGroup,
		cfg.ConsumerName,
	)
	redisCfg.MaxRetries = cfg.RedisRetries

	streamCfg := &stream.StreamConfig{
		Provider:    os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redisCfg,
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, deps.CompareExecutor, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")
	<-done

	if err := consumer.Stop(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close consumer")
	}
	logger.Info().Msg("Prompt quality consumer stopped")
}
