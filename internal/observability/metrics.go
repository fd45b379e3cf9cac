package observability

import (
	"context"
	"time"

	"github.com/lukitun/Jahbreak/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the engine instruments.
type Metrics struct {
	EvaluationCount    metric.Int64Counter
	EvaluationDuration metric.Float64Histogram
	AggregateScore     metric.Float64Histogram
	IssueCount         metric.Int64Counter
	PairCount          metric.Int64Counter
}

// InitMetrics creates the instruments on the global meter provider.
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	evaluationCount, err := meter.Int64Counter(
		"prompt.evaluation.count",
		metric.WithDescription("Number of evaluated prompt samples"),
	)
	if err != nil {
		return nil, err
	}

	evaluationDuration, err := meter.Float64Histogram(
		"prompt.evaluation.duration",
		metric.WithDescription("Evaluation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	aggregateScore, err := meter.Float64Histogram(
		"prompt.evaluation.aggregate_score",
		metric.WithDescription("Normalized aggregate score of evaluated samples"),
	)
	if err != nil {
		return nil, err
	}

	issueCount, err := meter.Int64Counter(
		"prompt.evaluation.issue.count",
		metric.WithDescription("Number of issues raised, by kind"),
	)
	if err != nil {
		return nil, err
	}

	pairCount, err := meter.Int64Counter(
		"prompt.comparison.count",
		metric.WithDescription("Number of compared variant pairs"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		EvaluationCount:    evaluationCount,
		EvaluationDuration: evaluationDuration,
		AggregateScore:     aggregateScore,
		IssueCount:         issueCount,
		PairCount:          pairCount,
	}, nil
}

// RecordEvaluation records one scored sample. A nil Metrics is a no-op.
func RecordEvaluation(ctx context.Context, m *Metrics, result models.EvaluationResult, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("variant", string(result.Variant)),
		attribute.String("tier", string(result.QualityTier)),
		attribute.Bool("passed", result.Passed),
	)

	m.EvaluationCount.Add(ctx, 1, attrs)
	m.EvaluationDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.AggregateScore.Record(ctx, result.AggregateScore, attrs)

	for _, issue := range result.Issues {
		m.IssueCount.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(issue.Kind))))
	}
}

func RecordPair(ctx context.Context, m *Metrics, pair models.PairResult) {
	if m == nil {
		return
	}
	m.PairCount.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("identical", pair.Comparison.Identical),
		attribute.Bool("passed", pair.Passed),
	))
}
