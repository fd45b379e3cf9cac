package aggregator

import (
	"strings"

	"github.com/lukitun/Jahbreak/internal/gate"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
	"github.com/rs/zerolog"
)

const (
	DimensionStructure = "structure"
	DimensionRelevance = "relevance"
	DimensionKeywords  = "keywords"
	DimensionCoherence = "coherence"
	DimensionPersona   = "persona"
	DimensionVariant   = "variant"
)

// dimensionOrder fixes the summation order so the aggregate is bit-identical
// across calls.
var dimensionOrder = []string{
	DimensionStructure,
	DimensionRelevance,
	DimensionKeywords,
	DimensionCoherence,
	DimensionPersona,
	DimensionVariant,
}

type Aggregator struct {
	rubric *rubric.Rubric
	gates  *gate.Registry
	logger *zerolog.Logger
}

// NewAggregator defaults a nil rubric to the embedded one and a nil registry
// to the rubric's own variant gates.
func NewAggregator(r *rubric.Rubric, gates *gate.Registry, logger *zerolog.Logger) *Aggregator {
	if r == nil {
		r = rubric.Default()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if gates == nil {
		built, err := gate.BuildFromConfig(r, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("invalid gate config, using built-in variant gates")
		}
		gates = built
	}
	return &Aggregator{
		rubric: r,
		gates:  gates,
		logger: logger,
	}
}

// Score turns analyzer signals into a verdict. It is a pure function of its
// arguments: issues are appended in a fixed order, one per failing condition.
func (a *Aggregator) Score(signals models.Signals, in models.EvaluationInput) models.EvaluationResult {
	th := a.rubric.Thresholds
	lower := rubric.Lower(in.Text)

	result := models.EvaluationResult{
		ID:              in.RequestID,
		Variant:         in.Variant,
		DimensionScores: make(map[string]models.DimensionScore),
		Issues:          []models.Issue{},
		Signals:         signals,
		Text:            in.Text,
	}

	variant := in.Variant
	unknown := !variant.Known()
	if unknown {
		variant = models.VariantDirect
		result.Warnings = append(result.Warnings, "unknown variant "+string(in.Variant)+", scored as direct")
		a.logger.Warn().
			Str("id", in.RequestID).
			Str("variant", string(in.Variant)).
			Msg("unexpected variant kind, scoring as direct")
	}
	rule := a.ruleFor(variant)

	result.DimensionScores[DimensionStructure] = a.scoreStructure(signals)
	result.DimensionScores[DimensionRelevance] = a.scoreRelevance(signals)
	result.DimensionScores[DimensionCoherence] = a.scoreCoherence(signals)

	var keywords keywordCoverage
	if len(in.ExpectedKeywords) > 0 {
		keywords = coverKeywords(lower, in.ExpectedKeywords)
		result.DimensionScores[DimensionKeywords] = models.DimensionScore{Score: 2 * keywords.ratio(), Max: 2}
	}

	personaOK := true
	if len(in.ExpectedPersonaTerms) > 0 {
		personaOK = reflectsPersona(lower, in.ExpectedPersonaTerms)
		result.DimensionScores[DimensionPersona] = binary(personaOK)
	}

	gateOK, gateIssue := rule.Check(signals)
	if rule.Applies() {
		result.DimensionScores[DimensionVariant] = binary(gateOK)
	}

	if signals.BelowFloor {
		for name, d := range result.DimensionScores {
			result.DimensionScores[name] = models.DimensionScore{Max: d.Max}
		}
	}

	result.AggregateScore = aggregate(result.DimensionScores)
	result.QualityTier = a.tierFor(result.AggregateScore)

	// Issue order is part of the output contract.
	if signals.CharLength < th.MinLength {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueInputTooShort,
			"text is %d characters, minimum is %d", signals.CharLength, th.MinLength))
	}
	if signals.CharLength > th.MaxLength {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueInputTooLong,
			"text is %d characters, maximum is %d", signals.CharLength, th.MaxLength))
	}
	if signals.RelevanceOverlapRatio < th.WeakRelevance {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueQueryIrrelevant,
			"only %.0f%% of query words appear in the text (minimum %.0f%%)",
			signals.RelevanceOverlapRatio*100, th.WeakRelevance*100))
	}
	if len(in.ExpectedKeywords) > 0 && keywords.ratio() < th.KeywordCoverage {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueMissingKeywords,
			"found %d of %d expected keywords, missing: %s",
			len(keywords.found), len(in.ExpectedKeywords), strings.Join(keywords.missing, ", ")))
	}
	if !personaOK {
		result.Issues = append(result.Issues, models.NewIssue(models.IssuePersonaNotReflected,
			"persona %q is not reflected in the text", strings.Join(in.ExpectedPersonaTerms, " ")))
	}
	if !gateOK {
		result.Issues = append(result.Issues, gateIssue)
	}
	if !a.passingTier(result.QualityTier) {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueLowQuality,
			"quality tier %s is below %s (aggregate %.2f)", result.QualityTier, th.PassingTier, result.AggregateScore))
	}
	if signals.ContradictionHits > 0 {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueInternalContradiction,
			"contradictory instructions: %s", strings.Join(signals.Contradictions, ", ")))
	}
	if variant != models.VariantUnsafe && len(signals.InjectionHits) > 0 {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueInjectionPattern,
			"injection pattern detected: %s", strings.Join(signals.InjectionHits, ", ")))
	}
	if unknown {
		result.Issues = append(result.Issues, models.NewIssue(models.IssueUnexpectedVariantKind,
			"unknown variant %q, expected one of direct, interactive, unsafe", string(in.Variant)))
	}

	result.Passed = len(result.Issues) == 0

	a.logger.
		Info().
		Str("id", in.RequestID).
		Str("variant", string(in.Variant)).
		Float64("aggregate_score", result.AggregateScore).
		Str("tier", string(result.QualityTier)).
		Int("issues", len(result.Issues)).
		Bool("passed", result.Passed).
		Msg("aggregation complete")

	return result
}

func (a *Aggregator) ruleFor(variant models.VariantKind) gate.Rule {
	if a.gates != nil {
		if rule, ok := a.gates.Rule(variant); ok {
			return rule
		}
	}
	return gate.DefaultRule(variant)
}

func aggregate(dimensions map[string]models.DimensionScore) float64 {
	var score, total float64
	for _, name := range dimensionOrder {
		d, ok := dimensions[name]
		if !ok {
			continue
		}
		score += d.Score
		total += d.Max
	}
	if total == 0 {
		return 0
	}
	return score / total
}

func binary(ok bool) models.DimensionScore {
	if ok {
		return models.DimensionScore{Score: 1, Max: 1}
	}
	return models.DimensionScore{Max: 1}
}
