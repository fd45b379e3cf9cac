// Package report renders evaluation results for terminals.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lukitun/Jahbreak/internal/batch"
	"github.com/lukitun/Jahbreak/internal/models"
)

// dimensionOrder is the display order; unknown dimensions follow alphabetically.
var dimensionOrder = []string{"structure", "relevance", "keywords", "coherence", "persona", "variant"}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styleLabel.Render(label), styleText.Render(value))
}

func orderedDimensions(scores map[string]models.DimensionScore) []string {
	rank := make(map[string]int, len(dimensionOrder))
	for i, name := range dimensionOrder {
		rank[name] = i
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// RenderResult draws one evaluation as a bordered card.
func RenderResult(r models.EvaluationResult) string {
	lines := []string{
		styleTitle.Render(fmt.Sprintf("Evaluation %s", r.ID)) + "  " + verdict(r.Passed),
		row("variant", string(r.Variant)),
		row("aggregate", fmt.Sprintf("%.3f", r.AggregateScore)),
		row("tier", tierStyle(string(r.QualityTier)).Render(string(r.QualityTier))),
		row("length", fmt.Sprintf("%d chars, %d words, %d sentences",
			r.Signals.CharLength, r.Signals.WordCount, r.Signals.SentenceCount)),
		row("safety", safetySummary(r.Signals)),
	}

	if hits := r.Signals.InjectionHits; len(hits) > 0 {
		lines = append(lines, row("injection", styleError.Render(strings.Join(hits, ", "))))
	}
	if found := r.Signals.UnsafeElements; len(found) > 0 {
		lines = append(lines, row("unsafe elements", styleWarning.Render(strings.Join(found, ", "))))
	}
	if found := r.Signals.Contradictions; len(found) > 0 {
		lines = append(lines, row("contradictions", styleWarning.Render(strings.Join(found, ", "))))
	}

	lines = append(lines, "", styleSubtle.Render("dimensions"))

	for _, name := range orderedDimensions(r.DimensionScores) {
		d := r.DimensionScores[name]
		lines = append(lines, row("  "+name, fmt.Sprintf("%g / %g", d.Score, d.Max)))
	}

	if len(r.Issues) > 0 {
		lines = append(lines, "", styleSubtle.Render("issues"))
		for _, issue := range r.Issues {
			lines = append(lines, "  "+styleError.Render(string(issue.Kind))+" "+styleText.Render(issue.Message))
		}
	}

	for _, w := range r.Warnings {
		lines = append(lines, styleWarning.Render("warning: "+w))
	}

	return styleBox.Render(strings.Join(lines, "\n"))
}

// safetySummary marks each built-in safety marker as present (+) or absent (-).
func safetySummary(s models.Signals) string {
	parts := make([]string, 0, 3)
	for _, m := range models.KnownSafetyMarkers() {
		mark := "-"
		if s.HasSafetyMarker(m) {
			mark = "+"
		}
		parts = append(parts, mark+string(m))
	}
	return strings.Join(parts, " ")
}

// RenderPair draws both results side by side with the comparison below.
func RenderPair(p models.PairResult) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top, RenderResult(p.First), " ", RenderResult(p.Second))

	lines := []string{
		styleTitle.Render(fmt.Sprintf("Pair %s", p.ID)) + "  " + verdict(p.Passed),
		row("identical", fmt.Sprintf("%t", p.Comparison.Identical)),
		row("length delta", fmt.Sprintf("%d", p.Comparison.LengthDelta)),
	}
	for _, issue := range p.Issues {
		lines = append(lines, "  "+styleError.Render(string(issue.Kind))+" "+styleText.Render(issue.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, styleBox.Render(strings.Join(lines, "\n")))
}

// RenderSummary draws batch totals. agreement may be nil.
func RenderSummary(s *batch.Summary, agreement *batch.AgreementResult) string {
	lines := []string{
		styleTitle.Render("Batch summary"),
		row("total", fmt.Sprintf("%d", s.Total)),
		row("passed", styleSuccess.Render(fmt.Sprintf("%d", s.Passed))),
		row("failed", styleError.Render(fmt.Sprintf("%d", s.Failed))),
		row("errors", fmt.Sprintf("%d", s.Errors)),
		row("mean aggregate", fmt.Sprintf("%.3f", s.MeanAggregate)),
	}

	if len(s.Tiers) > 0 {
		lines = append(lines, "", styleSubtle.Render("tiers"))
		for _, tier := range []models.QualityTier{models.TierExcellent, models.TierGood, models.TierFair, models.TierPoor} {
			if n, ok := s.Tiers[string(tier)]; ok {
				lines = append(lines, row("  "+tierStyle(string(tier)).Render(string(tier)), fmt.Sprintf("%d", n)))
			}
		}
	}

	if kinds := s.IssueKinds(); len(kinds) > 0 {
		lines = append(lines, "", styleSubtle.Render("issues"))
		for _, kind := range kinds {
			lines = append(lines, row("  "+string(kind), fmt.Sprintf("%d", s.Issues[string(kind)])))
		}
	}

	if agreement != nil {
		lines = append(lines, "", styleSubtle.Render("agreement with expected verdicts"),
			row("  rate", fmt.Sprintf("%.2f (threshold %.2f) %s", agreement.AgreementRate, agreement.Threshold, verdict(agreement.Passed))),
			row("  tp / tn", fmt.Sprintf("%d / %d", agreement.TruePositives, agreement.TrueNegatives)),
			row("  fp / fn", fmt.Sprintf("%d / %d", agreement.FalsePositives, agreement.FalseNegatives)),
		)
		if len(agreement.Disagreements) > 0 {
			lines = append(lines, row("  disagreements", strings.Join(agreement.Disagreements, ", ")))
		}
	}

	return styleBox.Render(strings.Join(lines, "\n"))
}
