package analyzer

import (
	"strings"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
)

func (a *Analyzer) detectMarkers(lower string, variant models.VariantKind, signals *models.Signals) {
	r := a.rubric

	signals.HasRole = rubric.ContainsAny(lower, r.Role)
	signals.HasInstructions = rubric.ContainsAny(lower, r.Instructions)
	signals.HasContext = rubric.ContainsAny(lower, r.Context)
	signals.HasFormatting = rubric.ContainsAny(lower, r.Formatting)
	signals.HasExamples = rubric.ContainsAny(lower, r.Examples)

	if variant == models.VariantInteractive {
		signals.InteractionLevel = a.interactionLevel(lower)
	}

	for _, cat := range r.Safety {
		if rubric.ContainsAny(lower, cat.Cues) {
			signals.SafetyMarkers = append(signals.SafetyMarkers, cat.Label)
		}
	}
}

// interactionLevel counts distinct interaction cues present in the text.
func (a *Analyzer) interactionLevel(lower string) models.InteractionLevel {
	found := len(matchCues(lower, a.rubric.InteractionCues))

	switch {
	case found >= a.rubric.Thresholds.HighInteractionCues:
		return models.InteractionHigh
	case found >= 1:
		return models.InteractionMedium
	default:
		return models.InteractionNone
	}
}

// matchCues returns the distinct cues found in lower, in rubric order.
func matchCues(lower string, cues []string) []string {
	var found []string
	seen := make(map[string]bool, len(cues))
	for _, cue := range cues {
		if cue == "" || seen[cue] {
			continue
		}
		if strings.Contains(lower, cue) {
			seen[cue] = true
			found = append(found, cue)
		}
	}
	return found
}

func matchPatterns(lower string, patterns []rubric.Pattern) []string {
	var found []string
	for _, p := range patterns {
		if p.Expr.MatchString(lower) {
			found = append(found, p.Name)
		}
	}
	return found
}
