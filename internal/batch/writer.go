package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Writer interface {
	Write(outcome Outcome) error
	Close() error
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (Writer, error) {
	switch format {
	case FormatJSONL, "":
		return &jsonlWriter{encoder: json.NewEncoder(w)}, nil
	case FormatSummary:
		return &summaryWriter{out: w, summary: NewSummary()}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

type jsonlLine struct {
	Outcome
	Error string `json:"error,omitempty"`
}

type jsonlWriter struct {
	encoder *json.Encoder
}

func (w *jsonlWriter) Write(outcome Outcome) error {
	line := jsonlLine{Outcome: outcome}
	if outcome.Error != nil {
		line.Error = outcome.Error.Error()
	}
	return w.encoder.Encode(line)
}

func (w *jsonlWriter) Close() error { return nil }

// Summary aggregates a batch run.
type Summary struct {
	Total          int            `json:"total"`
	Passed         int            `json:"passed"`
	Failed         int            `json:"failed"`
	Errors         int            `json:"errors"`
	MeanAggregate  float64        `json:"mean_aggregate_score"`
	Tiers          map[string]int `json:"tiers"`
	Issues         map[string]int `json:"issues"`
	FailedEventIDs []string       `json:"failed_event_ids,omitempty"`

	scoreSum float64
}

func NewSummary() *Summary {
	return &Summary{
		Tiers:  make(map[string]int),
		Issues: make(map[string]int),
	}
}

func (s *Summary) Add(outcome Outcome) {
	s.Total++

	if outcome.Result == nil {
		s.Errors++
		return
	}

	r := outcome.Result
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
		s.FailedEventIDs = append(s.FailedEventIDs, r.ID)
	}

	s.Tiers[string(r.QualityTier)]++
	for _, issue := range r.Issues {
		s.Issues[string(issue.Kind)]++
	}

	s.scoreSum += r.AggregateScore
	s.MeanAggregate = s.scoreSum / float64(s.Passed+s.Failed)
}

// IssueKinds returns the issue kinds seen, most frequent first.
func (s *Summary) IssueKinds() []models.IssueKind {
	kinds := make([]models.IssueKind, 0, len(s.Issues))
	for k := range s.Issues {
		kinds = append(kinds, models.IssueKind(k))
	}
	sort.Slice(kinds, func(i, j int) bool {
		ci, cj := s.Issues[string(kinds[i])], s.Issues[string(kinds[j])]
		if ci != cj {
			return ci > cj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

type summaryWriter struct {
	out     io.Writer
	summary *Summary
}

func (w *summaryWriter) Write(outcome Outcome) error {
	w.summary.Add(outcome)
	return nil
}

func (w *summaryWriter) Close() error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(w.summary)
}
