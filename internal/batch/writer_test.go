package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(line int, id string, passed bool, score float64, tier models.QualityTier, issues ...models.IssueKind) Outcome {
	result := &models.EvaluationResult{ID: id, Passed: passed, AggregateScore: score, QualityTier: tier}
	for _, kind := range issues {
		result.Issues = append(result.Issues, models.Issue{Kind: kind})
	}
	return Outcome{LineNumber: line, EventID: id, Result: result}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, "csv", newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, w.Write(outcome(1, "a", true, 0.8, models.TierExcellent)))
	require.NoError(t, w.Write(Outcome{LineNumber: 2, Error: errors.New("line 2: invalid JSON")}))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.EqualValues(t, 1, first["line"])
	assert.Equal(t, "a", first["event_id"])
	assert.NotContains(t, first, "error")

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "line 2: invalid JSON", second["error"])
	assert.NotContains(t, second, "result")
}

func TestSummaryWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatSummary, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, w.Write(outcome(1, "a", true, 0.8, models.TierExcellent)))
	require.NoError(t, w.Write(outcome(2, "b", false, 0.4, models.TierFair, models.IssueLowQuality, models.IssueInputTooShort)))
	require.NoError(t, w.Write(outcome(3, "c", false, 0.3, models.TierPoor, models.IssueLowQuality)))
	require.NoError(t, w.Write(Outcome{LineNumber: 4, Error: errors.New("bad")}))
	require.NoError(t, w.Close())

	var summary Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Errors)
	assert.InDelta(t, 0.5, summary.MeanAggregate, 1e-9)
	assert.Equal(t, map[string]int{"excellent": 1, "fair": 1, "poor": 1}, summary.Tiers)
	assert.Equal(t, map[string]int{"LowQuality": 2, "InputTooShort": 1}, summary.Issues)
	assert.Equal(t, []string{"b", "c"}, summary.FailedEventIDs)
}

func TestSummary_IssueKindsByFrequency(t *testing.T) {
	s := NewSummary()
	s.Add(outcome(1, "a", false, 0.1, models.TierPoor, models.IssueLowQuality, models.IssueInjectionPattern))
	s.Add(outcome(2, "b", false, 0.1, models.TierPoor, models.IssueLowQuality))

	assert.Equal(t, []models.IssueKind{models.IssueLowQuality, models.IssueInjectionPattern}, s.IssueKinds())
}
