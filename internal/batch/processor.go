package batch

import (
	"context"
	"sort"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Evaluator runs the single-sample pipeline
type Evaluator interface {
	Execute(ctx context.Context, in models.EvaluationInput) models.EvaluationResult
}

// Outcome pairs an input line with its result. Exactly one of Result and
// Error is set.
type Outcome struct {
	LineNumber     int                      `json:"line"`
	EventID        string                   `json:"event_id,omitempty"`
	ExpectedPassed *bool                    `json:"expected_passed,omitempty"`
	Result         *models.EvaluationResult `json:"result,omitempty"`
	Error          error                    `json:"-"`
}

type Processor struct {
	executor Evaluator
	workers  int
	logger   *zerolog.Logger
}

func NewProcessor(executor Evaluator, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		executor: executor,
		workers:  workers,
		logger:   logger,
	}
}

// Process evaluates records on a bounded worker pool. Outcomes arrive in
// completion order; the channel closes once every started evaluation is
// delivered or ctx is cancelled.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Outcome {
	out := make(chan Outcome)

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		for _, record := range records {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				outcome := p.evaluate(gctx, record)
				select {
				case out <- outcome:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}

		if err := g.Wait(); err != nil {
			p.logger.Warn().Err(err).Msg("Batch processing interrupted")
		}
	}()

	return out
}

func (p *Processor) evaluate(ctx context.Context, record InputRecord) Outcome {
	outcome := Outcome{
		LineNumber:     record.LineNumber,
		EventID:        record.Request.EventID,
		ExpectedPassed: record.Request.ExpectedPassed,
	}

	if record.Error != nil {
		p.logger.Warn().Err(record.Error).Int("line", record.LineNumber).Msg("Skipping invalid record")
		outcome.Error = record.Error
		return outcome
	}

	result := p.executor.Execute(ctx, models.Normalize(record.Request.EventID, record.Request.Sample))
	outcome.EventID = result.ID
	outcome.Result = &result
	return outcome
}

// Collect drains ch and orders the outcomes by input line.
func Collect(ch <-chan Outcome) []Outcome {
	var outcomes []Outcome
	for o := range ch {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].LineNumber < outcomes[j].LineNumber
	})
	return outcomes
}
