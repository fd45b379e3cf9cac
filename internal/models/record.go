package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Normalize turns a wire sample into the engine input. An unrecognised
// variant tag is carried through as-is so the aggregator can report it.
func Normalize(eventID string, sample Sample) EvaluationInput {
	if eventID == "" {
		eventID = uuid.NewString()
	}

	variant, err := ParseVariantKind(sample.Variant)
	if err != nil {
		variant = VariantKind(sample.Variant)
	}

	return EvaluationInput{
		RequestID:            eventID,
		Query:                sample.Query,
		Text:                 sample.Text,
		Variant:              variant,
		ExpectedKeywords:     sample.ExpectedKeywords,
		ExpectedPersonaTerms: sample.ExpectedPersonaTerms,
		CreatedAt:            time.Now(),
	}
}

// NormalizePair gives both samples of a comparison IDs derived from the
// pair ID.
func NormalizePair(req CompareRequest) (string, EvaluationInput, EvaluationInput) {
	id := req.EventID
	if id == "" {
		id = uuid.NewString()
	}
	return id, Normalize(id+"/first", req.First), Normalize(id+"/second", req.Second)
}

// Record flattens the result into plain maps and slices for report writers
// that should not depend on engine types.
func (r EvaluationResult) Record() map[string]any {
	names := make([]string, 0, len(r.DimensionScores))
	for name := range r.DimensionScores {
		names = append(names, name)
	}
	sort.Strings(names)

	dimensions := make(map[string]any, len(names))
	for _, name := range names {
		d := r.DimensionScores[name]
		dimensions[name] = map[string]any{"score": d.Score, "max": d.Max}
	}

	issues := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		issues = append(issues, issue.String())
	}

	markers := make([]string, 0, len(r.Signals.SafetyMarkers))
	for _, m := range r.Signals.SafetyMarkers {
		markers = append(markers, string(m))
	}

	return map[string]any{
		"id":               r.ID,
		"variant":          string(r.Variant),
		"dimension_scores": dimensions,
		"aggregate_score":  r.AggregateScore,
		"quality_tier":     string(r.QualityTier),
		"issues":           issues,
		"warnings":         append([]string{}, r.Warnings...),
		"passed":           r.Passed,
		"signals": map[string]any{
			"has_role":                r.Signals.HasRole,
			"has_instructions":        r.Signals.HasInstructions,
			"has_context":             r.Signals.HasContext,
			"has_formatting":          r.Signals.HasFormatting,
			"has_examples":            r.Signals.HasExamples,
			"interaction_level":       string(r.Signals.InteractionLevel),
			"safety_markers":          markers,
			"char_length":             r.Signals.CharLength,
			"word_count":              r.Signals.WordCount,
			"sentence_count":          r.Signals.SentenceCount,
			"avg_sentence_length":     r.Signals.AvgSentenceLength,
			"relevance_overlap_ratio": r.Signals.RelevanceOverlapRatio,
			"contradiction_hits":      r.Signals.ContradictionHits,
			"contradictions":          append([]string{}, r.Signals.Contradictions...),
			"injection_hits":          append([]string{}, r.Signals.InjectionHits...),
			"unsafe_elements":         append([]string{}, r.Signals.UnsafeElements...),
		},
	}
}
