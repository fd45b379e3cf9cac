package executor

import (
	"context"

	"github.com/lukitun/Jahbreak/internal/aggregator"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/observability"
	"github.com/rs/zerolog"
)

// Evaluator runs the single-sample pipeline
type Evaluator interface {
	Execute(ctx context.Context, in models.EvaluationInput) models.EvaluationResult
}

// CompareExecutor evaluates two variants generated from the same query.
type CompareExecutor struct {
	evaluator Evaluator
	metrics   *observability.Metrics
	logger    *zerolog.Logger
}

func NewCompareExecutor(evaluator Evaluator, metrics *observability.Metrics, logger *zerolog.Logger) *CompareExecutor {
	return &CompareExecutor{
		evaluator: evaluator,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute scores both samples independently. When expectDistinct is set,
// byte-identical texts fail the pair with a VariantsIdentical issue.
func (e *CompareExecutor) Execute(ctx context.Context, id string, first, second models.EvaluationInput, expectDistinct bool) models.PairResult {
	e.logger.Info().Str("requestID", id).Msg("starting comparison")

	pair := models.PairResult{
		ID:     id,
		First:  e.evaluator.Execute(ctx, first),
		Second: e.evaluator.Execute(ctx, second),
		Issues: []models.Issue{},
	}
	pair.Comparison = aggregator.Compare(pair.First, pair.Second)

	if expectDistinct && pair.Comparison.Identical {
		pair.VariantsIdentical = true
		pair.Issues = append(pair.Issues, models.NewIssue(models.IssueVariantsIdentical,
			"variants %s and %s produced identical text", first.Variant, second.Variant))
		e.logger.Warn().Str("requestID", id).Msg("variants produced identical text")
	}

	pair.Passed = pair.First.Passed && pair.Second.Passed && len(pair.Issues) == 0
	observability.RecordPair(ctx, e.metrics, pair)

	e.logger.
		Info().
		Str("requestID", id).
		Bool("identical", pair.Comparison.Identical).
		Int("lengthDelta", pair.Comparison.LengthDelta).
		Bool("passed", pair.Passed).
		Msg("comparison complete")
	return pair
}
