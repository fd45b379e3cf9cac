package aggregator

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lukitun/Jahbreak/internal/analyzer"
	"github.com/lukitun/Jahbreak/internal/gate"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scenarioA      = "You are a Software Engineer. Please provide a step-by-step guide. Context: the user wants to learn. Format your answer as a numbered list. For example: 1. Install the tool."
	scenarioAQuery = "How to learn programming"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	gates, err := gate.BuildFromConfig(rubric.Default(), newTestLogger())
	require.NoError(t, err)
	return NewAggregator(rubric.Default(), gates, newTestLogger())
}

func evaluate(t *testing.T, in models.EvaluationInput) models.EvaluationResult {
	t.Helper()
	signals := analyzer.NewAnalyzer(rubric.Default()).Analyze(in)
	return newTestAggregator(t).Score(signals, in)
}

// goodSignals scores full marks on every shared dimension.
func goodSignals() models.Signals {
	return models.Signals{
		HasRole:               true,
		HasInstructions:       true,
		HasContext:            true,
		HasFormatting:         true,
		InteractionLevel:      models.InteractionNone,
		SafetyMarkers:         []models.SafetyMarker{},
		CharLength:            300,
		WordCount:             60,
		SentenceCount:         5,
		AvgSentenceLength:     12,
		RelevanceOverlapRatio: 0.6,
	}
}

func issueKinds(r models.EvaluationResult) []models.IssueKind {
	kinds := make([]models.IssueKind, 0, len(r.Issues))
	for _, issue := range r.Issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

func TestScore_ScenarioA(t *testing.T) {
	result := evaluate(t, models.EvaluationInput{
		RequestID: "scenario-a",
		Text:      scenarioA,
		Query:     scenarioAQuery,
		Variant:   models.VariantDirect,
	})

	assert.Equal(t, models.DimensionScore{Score: 6, Max: 8}, result.DimensionScores[DimensionStructure])
	assert.Equal(t, models.DimensionScore{Score: 2, Max: 2}, result.DimensionScores[DimensionRelevance])
	assert.Equal(t, models.DimensionScore{Score: 3, Max: 3}, result.DimensionScores[DimensionCoherence])
	assert.NotContains(t, result.DimensionScores, DimensionVariant)
	assert.NotContains(t, result.DimensionScores, DimensionKeywords)

	assert.InDelta(t, 11.0/13.0, result.AggregateScore, 1e-9)
	assert.Equal(t, models.TierExcellent, result.QualityTier)
	assert.Empty(t, result.Issues)
	assert.True(t, result.Passed)
	assert.Equal(t, "scenario-a", result.ID)
}

func TestScore_ScenarioB_ShortReply(t *testing.T) {
	result := evaluate(t, models.EvaluationInput{
		Text:    "short reply",
		Query:   scenarioAQuery,
		Variant: models.VariantDirect,
	})

	assert.True(t, result.Signals.BelowFloor)
	assert.Zero(t, result.AggregateScore)
	assert.Equal(t, models.TierPoor, result.QualityTier)
	assert.False(t, result.Passed)
	require.NotEmpty(t, result.Issues)
	assert.Equal(t, models.IssueInputTooShort, result.Issues[0].Kind)
	assert.True(t, result.HasIssue(models.IssueLowQuality))

	for name, d := range result.DimensionScores {
		assert.Zerof(t, d.Score, "dimension %s should score zero below the floor", name)
	}
}

func TestScore_EmptyText(t *testing.T) {
	for _, variant := range models.KnownVariantKinds() {
		t.Run(string(variant), func(t *testing.T) {
			result := evaluate(t, models.EvaluationInput{Text: "", Query: "anything", Variant: variant})

			assert.False(t, result.Passed)
			assert.Zero(t, result.AggregateScore)
			assert.Equal(t, models.TierPoor, result.QualityTier)
			assert.True(t, result.HasIssue(models.IssueInputTooShort))
		})
	}
}

func TestScore_UnsafeRequiresSafetyFraming(t *testing.T) {
	without := evaluate(t, models.EvaluationInput{
		Text:    scenarioA,
		Query:   scenarioAQuery,
		Variant: models.VariantUnsafe,
	})

	assert.False(t, without.Passed)
	assert.Equal(t, []models.IssueKind{models.IssueMissingSafetyFraming}, issueKinds(without))
	assert.Equal(t, models.DimensionScore{Max: 1}, without.DimensionScores[DimensionVariant])

	with := evaluate(t, models.EvaluationInput{
		Text:    scenarioA + " Be careful and responsible.",
		Query:   scenarioAQuery,
		Variant: models.VariantUnsafe,
	})

	assert.True(t, with.Passed, "issues: %v", with.Issues)
	assert.Equal(t, models.DimensionScore{Score: 1, Max: 1}, with.DimensionScores[DimensionVariant])
	assert.True(t, with.Signals.HasSafetyMarker(models.SafetyEthicalGuidelines))
	assert.True(t, with.Signals.HasSafetyMarker(models.SafetyWarnings))
}

func TestScore_InteractiveRequiresInteraction(t *testing.T) {
	flat := evaluate(t, models.EvaluationInput{
		Text:    scenarioA,
		Query:   scenarioAQuery,
		Variant: models.VariantInteractive,
	})

	require.Equal(t, []models.IssueKind{models.IssueLowInteraction}, issueKinds(flat))
	assert.Contains(t, flat.Issues[0].Message, "does not encourage interaction")
	assert.False(t, flat.Passed)

	engaging := evaluate(t, models.EvaluationInput{
		Text:    scenarioA + " Ask me a question if anything needs detail.",
		Query:   scenarioAQuery,
		Variant: models.VariantInteractive,
	})

	assert.Equal(t, models.InteractionHigh, engaging.Signals.InteractionLevel)
	assert.True(t, engaging.Passed, "issues: %v", engaging.Issues)
}

func TestScore_Keywords(t *testing.T) {
	tests := []struct {
		name        string
		keywords    []string
		wantScore   float64
		wantMissing bool
	}{
		{"all found", []string{"guide", "Numbered List"}, 2, false},
		{"half found", []string{"guide", "python"}, 1, false},
		{"mostly missing", []string{"guide", "python", "factorial"}, 2.0 / 3.0, true},
		{"none found", []string{"python"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluate(t, models.EvaluationInput{
				Text:             scenarioA,
				Query:            scenarioAQuery,
				Variant:          models.VariantDirect,
				ExpectedKeywords: tt.keywords,
			})

			d := result.DimensionScores[DimensionKeywords]
			assert.InDelta(t, tt.wantScore, d.Score, 1e-9)
			assert.Equal(t, 2.0, d.Max)
			assert.Equal(t, tt.wantMissing, result.HasIssue(models.IssueMissingKeywords))
		})
	}
}

func TestScore_Persona(t *testing.T) {
	tests := []struct {
		name    string
		persona []string
		wantOK  bool
	}{
		{"full term", []string{"Software Engineer"}, true},
		{"single word of term", []string{"Senior Engineer"}, true},
		{"absent", []string{"Data Analyst"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluate(t, models.EvaluationInput{
				Text:                 scenarioA,
				Query:                scenarioAQuery,
				Variant:              models.VariantDirect,
				ExpectedPersonaTerms: tt.persona,
			})

			assert.Equal(t, !tt.wantOK, result.HasIssue(models.IssuePersonaNotReflected))
			assert.Equal(t, binary(tt.wantOK), result.DimensionScores[DimensionPersona])
		})
	}
}

func TestScore_Contradiction(t *testing.T) {
	agg := newTestAggregator(t)
	signals := goodSignals()
	signals.ContradictionHits = 1
	signals.Contradictions = []string{"contradictory absolutes"}

	result := agg.Score(signals, models.EvaluationInput{Text: "irrelevant", Variant: models.VariantDirect})

	assert.Equal(t, models.DimensionScore{Score: 2, Max: 3}, result.DimensionScores[DimensionCoherence])
	assert.Equal(t, []models.IssueKind{models.IssueInternalContradiction}, issueKinds(result))
	assert.Contains(t, result.Issues[0].Message, "contradictory absolutes")
	assert.False(t, result.Passed)
}

func TestScore_CoherenceFloorsAtZero(t *testing.T) {
	agg := newTestAggregator(t)
	signals := goodSignals()
	signals.AvgSentenceLength = 40
	signals.SentenceCount = 1
	signals.ContradictionHits = 3
	signals.Contradictions = []string{"a", "b", "c"}

	result := agg.Score(signals, models.EvaluationInput{Variant: models.VariantDirect})

	assert.Equal(t, models.DimensionScore{Max: 3}, result.DimensionScores[DimensionCoherence])
}

func TestScore_Injection(t *testing.T) {
	agg := newTestAggregator(t)
	signals := goodSignals()
	signals.InjectionHits = []string{"jailbreak"}

	direct := agg.Score(signals, models.EvaluationInput{Variant: models.VariantDirect})
	assert.Equal(t, []models.IssueKind{models.IssueInjectionPattern}, issueKinds(direct))

	signals.SafetyMarkers = []models.SafetyMarker{models.SafetyLimitationAwareness}
	unsafe := agg.Score(signals, models.EvaluationInput{Variant: models.VariantUnsafe})
	assert.True(t, unsafe.Passed, "injection patterns are expected in unsafe prompts: %v", unsafe.Issues)
}

func TestScore_UnknownVariant(t *testing.T) {
	result := evaluate(t, models.EvaluationInput{
		Text:    scenarioA,
		Query:   scenarioAQuery,
		Variant: models.VariantKind("haiku"),
	})

	assert.Equal(t, models.VariantKind("haiku"), result.Variant)
	assert.Equal(t, []models.IssueKind{models.IssueUnexpectedVariantKind}, issueKinds(result))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "scored as direct")
	assert.NotContains(t, result.DimensionScores, DimensionVariant)
	assert.Equal(t, models.TierExcellent, result.QualityTier)
	assert.False(t, result.Passed)
}

func TestScore_IssueOrder(t *testing.T) {
	agg := newTestAggregator(t)
	signals := models.Signals{
		HasRole:               true,
		InteractionLevel:      models.InteractionNone,
		CharLength:            2500,
		WordCount:             400,
		SentenceCount:         2,
		AvgSentenceLength:     200,
		RelevanceOverlapRatio: 0.1,
		ContradictionHits:     1,
		Contradictions:        []string{"contradictory tone"},
		InjectionHits:         []string{"dan mode"},
	}

	result := agg.Score(signals, models.EvaluationInput{
		Text:                 "nothing relevant here",
		Variant:              models.VariantInteractive,
		ExpectedKeywords:     []string{"zzz"},
		ExpectedPersonaTerms: []string{"Pilot"},
	})

	want := []models.IssueKind{
		models.IssueInputTooLong,
		models.IssueQueryIrrelevant,
		models.IssueMissingKeywords,
		models.IssuePersonaNotReflected,
		models.IssueLowInteraction,
		models.IssueLowQuality,
		models.IssueInternalContradiction,
		models.IssueInjectionPattern,
	}
	if diff := cmp.Diff(want, issueKinds(result)); diff != "" {
		t.Errorf("issue order mismatch (-want +got):\n%s", diff)
	}
	// 4 structure points of 17 available.
	assert.InDelta(t, 4.0/17.0, result.AggregateScore, 1e-9)
	assert.Equal(t, models.TierPoor, result.QualityTier)
}

func TestScore_Deterministic(t *testing.T) {
	in := models.EvaluationInput{
		RequestID:            "det",
		Text:                 scenarioA,
		Query:                scenarioAQuery,
		Variant:              models.VariantUnsafe,
		ExpectedKeywords:     []string{"guide", "python"},
		ExpectedPersonaTerms: []string{"Software Engineer"},
	}

	first := evaluate(t, in)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, evaluate(t, in)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestTierFor(t *testing.T) {
	agg := newTestAggregator(t)

	tests := []struct {
		score float64
		want  models.QualityTier
	}{
		{1, models.TierExcellent},
		{7.0 / 9.0, models.TierExcellent},
		{0.77, models.TierGood},
		{5.0 / 9.0, models.TierGood},
		{0.5, models.TierFair},
		{3.0 / 9.0, models.TierFair},
		{0.3, models.TierPoor},
		{0, models.TierPoor},
	}

	for _, tt := range tests {
		if got := agg.tierFor(tt.score); got != tt.want {
			t.Errorf("tierFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNewAggregator_NilGatesUsesRubricGates(t *testing.T) {
	agg := NewAggregator(nil, nil, newTestLogger())

	result := agg.Score(goodSignals(), models.EvaluationInput{Variant: models.VariantUnsafe})

	assert.False(t, result.Passed)
	assert.True(t, result.HasIssue(models.IssueMissingSafetyFraming))
	assert.Equal(t, models.DimensionScore{Max: 1}, result.DimensionScores[DimensionVariant])
}

func TestNewAggregator_InvalidGateConfigUsesBuiltinGates(t *testing.T) {
	r := *rubric.Default()
	r.Gates = map[models.VariantKind]string{models.VariantDirect: "sentiment"}

	agg := NewAggregator(&r, nil, newTestLogger())

	interactive := agg.Score(goodSignals(), models.EvaluationInput{Variant: models.VariantInteractive})
	assert.True(t, interactive.HasIssue(models.IssueLowInteraction))

	direct := agg.Score(goodSignals(), models.EvaluationInput{Variant: models.VariantDirect})
	assert.NotContains(t, direct.DimensionScores, DimensionVariant)
}

func TestNewAggregator_NilLogger(t *testing.T) {
	agg := NewAggregator(nil, nil, nil)

	assert.NotPanics(t, func() {
		agg.Score(goodSignals(), models.EvaluationInput{Variant: models.VariantKind("haiku")})
	})
}

func TestScore_StricterDirectGate(t *testing.T) {
	r := *rubric.Default()
	r.Gates = map[models.VariantKind]string{
		models.VariantDirect:      gate.RuleRoleAndInstr,
		models.VariantInteractive: gate.RuleInteraction,
		models.VariantUnsafe:      gate.RuleSafetyFraming,
	}
	agg := NewAggregator(&r, nil, newTestLogger())

	signals := goodSignals()
	signals.HasRole = false

	result := agg.Score(signals, models.EvaluationInput{Variant: models.VariantDirect})

	assert.False(t, result.Passed)
	assert.Equal(t, []models.IssueKind{models.IssueMissingRoleOrInstructions}, issueKinds(result))
	assert.Equal(t, models.DimensionScore{Max: 1}, result.DimensionScores[DimensionVariant])
}

func TestScore_AggregateIsBitIdentical(t *testing.T) {
	agg := newTestAggregator(t)

	signals := goodSignals()
	signals.SafetyMarkers = []models.SafetyMarker{models.SafetyWarnings}
	in := models.EvaluationInput{
		Text:                 "alpha only, be careful",
		Variant:              models.VariantUnsafe,
		ExpectedKeywords:     []string{"alpha", "beta", "gamma"},
		ExpectedPersonaTerms: []string{"Curator"},
	}

	want := math.Float64bits(agg.Score(signals, in).AggregateScore)
	for i := 0; i < 1000; i++ {
		got := agg.Score(signals, in).AggregateScore
		if math.Float64bits(got) != want {
			t.Fatalf("run %d: aggregate %v differs from %v", i, got, math.Float64frombits(want))
		}
	}
}

func TestStructure_MonotonicInMarkers(t *testing.T) {
	r := rubric.Default()
	a := analyzer.NewAnalyzer(r)
	agg := newTestAggregator(t)

	flag := func(s models.Signals, category string) bool {
		switch category {
		case "role":
			return s.HasRole
		case "instructions":
			return s.HasInstructions
		case "context":
			return s.HasContext
		case "formatting":
			return s.HasFormatting
		default:
			return s.HasExamples
		}
	}

	steps := []struct {
		category string
		cue      string
	}{
		{"instructions", r.Instructions[0]},
		{"context", r.Context[0]},
		{"formatting", r.Formatting[0]},
		{"examples", r.Examples[0]},
		{"role", r.Role[0]},
	}

	// Starts with a role and nothing else.
	text := "You are a patient tutor. The quick brown fox jumps over the lazy dog. The dog sleeps in the sun."
	before := a.Analyze(models.EvaluationInput{Text: text, Variant: models.VariantDirect})
	require.False(t, before.BelowFloor)
	require.True(t, before.HasRole)
	require.False(t, before.HasInstructions || before.HasContext || before.HasFormatting || before.HasExamples)

	for _, step := range steps {
		t.Run(step.category, func(t *testing.T) {
			text += " " + step.cue + "."
			after := a.Analyze(models.EvaluationInput{Text: text, Variant: models.VariantDirect})

			assert.True(t, flag(after, step.category), "cue %q did not set %s", step.cue, step.category)
			for _, other := range []string{"role", "instructions", "context", "formatting", "examples"} {
				assert.True(t, !flag(before, other) || flag(after, other), "%s flag was lost", other)
			}
			assert.GreaterOrEqual(t, agg.scoreStructure(after).Score, agg.scoreStructure(before).Score)

			before = after
		})
	}

	assert.Greater(t, agg.scoreStructure(before).Score, 2.0)
}
