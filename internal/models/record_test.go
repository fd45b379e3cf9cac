package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariantKind(t *testing.T) {
	tests := []struct {
		in      string
		want    VariantKind
		wantErr bool
	}{
		{"direct", VariantDirect, false},
		{" Interactive ", VariantInteractive, false},
		{"UNSAFE", VariantUnsafe, false},
		{"1-shot", VariantDirect, false},
		{"2-shot", VariantInteractive, false},
		{"haiku", VariantKind("haiku"), true},
		{"", VariantKind(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariantKind(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownVariant), "expected ErrUnknownVariant, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	sample := Sample{
		Query:            "How to learn programming",
		Text:             "You are a tutor.",
		Variant:          "2-shot",
		ExpectedKeywords: []string{"learn"},
	}

	in := Normalize("evt-1", sample)
	assert.Equal(t, "evt-1", in.RequestID)
	assert.Equal(t, VariantInteractive, in.Variant)
	assert.Equal(t, sample.ExpectedKeywords, in.ExpectedKeywords)
	assert.False(t, in.CreatedAt.IsZero())

	generated := Normalize("", Sample{Variant: "haiku"})
	assert.NotEmpty(t, generated.RequestID)
	assert.Equal(t, VariantKind("haiku"), generated.Variant)
}

func TestNormalizePair(t *testing.T) {
	id, first, second := NormalizePair(CompareRequest{
		EventID: "pair-1",
		First:   Sample{Query: "q", Variant: "direct"},
		Second:  Sample{Query: "q", Variant: "interactive"},
	})

	assert.Equal(t, "pair-1", id)
	assert.Equal(t, "pair-1/first", first.RequestID)
	assert.Equal(t, "pair-1/second", second.RequestID)
	assert.Equal(t, VariantInteractive, second.Variant)

	generated, _, _ := NormalizePair(CompareRequest{})
	assert.NotEmpty(t, generated)
}

func TestRecord(t *testing.T) {
	result := EvaluationResult{
		ID:      "r-1",
		Variant: VariantUnsafe,
		DimensionScores: map[string]DimensionScore{
			"structure": {Score: 6, Max: 8},
			"variant":   {Score: 0, Max: 1},
		},
		AggregateScore: 0.5,
		QualityTier:    TierFair,
		Issues:         []Issue{NewIssue(IssueMissingSafetyFraming, "no markers")},
		Signals: Signals{
			InteractionLevel: InteractionNone,
			SafetyMarkers:    []SafetyMarker{SafetyWarnings},
			InjectionHits:    []string{"ignore-previous"},
			UnsafeElements:   []string{"hack"},
		},
	}

	record := result.Record()

	assert.Equal(t, "r-1", record["id"])
	assert.Equal(t, "unsafe", record["variant"])
	assert.Equal(t, []string{"MissingSafetyFraming: no markers"}, record["issues"])

	dims, ok := record["dimension_scores"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"score": 6.0, "max": 8.0}, dims["structure"])

	signals, ok := record["signals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"safety-warnings"}, signals["safety_markers"])
	assert.Equal(t, []string{"ignore-previous"}, signals["injection_hits"])
	assert.Equal(t, []string{"hack"}, signals["unsafe_elements"])
	assert.Equal(t, []string{}, signals["contradictions"])
}
