package executor

import (
	"context"
	"time"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/observability"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Analyzer,Scorer,Evaluator

// Analyzer extracts signals from a generated prompt
type Analyzer interface {
	Analyze(in models.EvaluationInput) models.Signals
}

// Scorer turns signals into the final evaluation
type Scorer interface {
	Score(signals models.Signals, in models.EvaluationInput) models.EvaluationResult
}

type Executor struct {
	analyzer Analyzer
	scorer   Scorer
	metrics  *observability.Metrics
	logger   *zerolog.Logger
}

func NewExecutor(
	analyzer Analyzer,
	scorer Scorer,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) *Executor {
	return &Executor{
		analyzer: analyzer,
		scorer:   scorer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute never fails: content problems are reported as issues on the result.
func (e *Executor) Execute(ctx context.Context, in models.EvaluationInput) models.EvaluationResult {
	id := in.RequestID
	e.logger.Info().Str("requestID", id).Str("variant", string(in.Variant)).Msg("starting evaluation")

	ctx, span := observability.StartSpan(ctx, "executor.Execute")
	defer span.End()

	start := time.Now()

	signals := e.analyzer.Analyze(in)
	if signals.BelowFloor {
		e.logger.Debug().Int("charLength", signals.CharLength).Msg("text below analyzable length")
	}

	result := e.scorer.Score(signals, in)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("variant", string(result.Variant)),
		attribute.Float64("aggregate_score", result.AggregateScore),
		attribute.Bool("passed", result.Passed),
	)
	observability.RecordEvaluation(ctx, e.metrics, result, duration)

	e.logger.
		Info().
		Str("requestID", id).
		Str("tier", string(result.QualityTier)).
		Float64("aggregateScore", result.AggregateScore).
		Bool("passed", result.Passed).
		Dur("duration", duration).
		Msg("evaluation complete")
	return result
}
