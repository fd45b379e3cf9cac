package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/lukitun/Jahbreak/internal/aggregator"
	"github.com/lukitun/Jahbreak/internal/analyzer"
	"github.com/lukitun/Jahbreak/internal/config"
	"github.com/lukitun/Jahbreak/internal/executor"
	"github.com/lukitun/Jahbreak/internal/gate"
	"github.com/lukitun/Jahbreak/internal/observability"
	"github.com/lukitun/Jahbreak/internal/rubric"
	"github.com/rs/zerolog"
)

type Config struct {
	LogLevel      string
	ServiceName   string
	OTLPEndpoint  string
	APIPort       string
	RedisAddr     string
	RedisPassword string
	SampleStream  string
	ResultStream  string
	ConsumerGroup string
	ConsumerName  string
	BatchWorkers  int
	RedisRetries  int
}

type Dependencies struct {
	Executor        *executor.Executor
	CompareExecutor *executor.CompareExecutor
	RubricConfig    *config.Config
	Rubric          *rubric.Rubric
	Logger          *zerolog.Logger
}

func LoadConfig() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ServiceName:   getEnv("OTEL_SERVICE_NAME", "jahbreak"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		APIPort:       getEnv("PROMPTCHECK_API_PORT", "18081"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SampleStream:  getEnv("SAMPLE_STREAM", "prompt-samples"),
		ResultStream:  getEnv("RESULT_STREAM", "prompt-results"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "promptcheck"),
		ConsumerName:  getEnv("CONSUMER_NAME", getEnv("HOSTNAME", hostname)),
		BatchWorkers:  getEnvInt("BATCH_WORKERS", 4),
		RedisRetries:  getEnvInt("REDIS_MAX_RETRIES", 5),
	}
}

// Wire loads the rubric once and builds every engine component from it.
// RUBRIC_CONFIG_PATH overrides the embedded rubric.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	rubricConfig, err := config.LoadRubricConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric config: %w", err)
	}

	compiled, err := rubric.Compile(rubricConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rubric: %w", err)
	}

	gates, err := gate.BuildFromConfig(compiled, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build gate rules: %w", err)
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	agg := aggregator.NewAggregator(compiled, gates, logger)
	exec := executor.NewExecutor(analyzer.NewAnalyzer(compiled), agg, metrics, logger)
	compareExec := executor.NewCompareExecutor(exec, metrics, logger)

	logger.Info().
		Int("variants", len(compiled.Gates)).
		Int("contradictionPatterns", len(compiled.Contradictions)).
		Int("injectionPatterns", len(compiled.Injections)).
		Msg("rubric loaded")

	return &Dependencies{
		Executor:        exec,
		CompareExecutor: compareExec,
		RubricConfig:    rubricConfig,
		Rubric:          compiled,
		Logger:          logger,
	}, nil
}

// SetupTelemetry exports traces and metrics when an OTLP endpoint is
// configured. The returned shutdown is never nil.
func SetupTelemetry(ctx context.Context, cfg *Config, logger *zerolog.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if cfg.OTLPEndpoint == "" {
		return noop
	}

	shutdown, err := observability.Setup(ctx, cfg.ServiceName, "1.0.0", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn().Err(err).Str("endpoint", cfg.OTLPEndpoint).Msg("telemetry disabled")
		return noop
	}

	logger.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("telemetry enabled")
	return shutdown
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		value = defaultValue
	}

	return value
}
