package aggregator

import (
	"strings"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
)

func (a *Aggregator) scoreStructure(s models.Signals) models.DimensionScore {
	w := a.rubric.Weights
	th := a.rubric.Thresholds

	d := models.DimensionScore{
		Max: w.Role + w.Instructions + w.Context + w.Formatting + w.LongText + w.WordCount,
	}
	if s.HasRole {
		d.Score += w.Role
	}
	if s.HasInstructions {
		d.Score += w.Instructions
	}
	if s.HasContext {
		d.Score += w.Context
	}
	if s.HasFormatting {
		d.Score += w.Formatting
	}
	if s.CharLength > th.LongTextChars {
		d.Score += w.LongText
	}
	if s.WordCount > th.LongTextWords {
		d.Score += w.WordCount
	}
	return d
}

func (a *Aggregator) scoreRelevance(s models.Signals) models.DimensionScore {
	th := a.rubric.Thresholds

	d := models.DimensionScore{Max: 2}
	switch {
	case s.RelevanceOverlapRatio >= th.StrongRelevance:
		d.Score = 2
	case s.RelevanceOverlapRatio >= th.WeakRelevance:
		d.Score = 1
	}
	return d
}

func (a *Aggregator) scoreCoherence(s models.Signals) models.DimensionScore {
	th := a.rubric.Thresholds

	score := 0.0
	switch {
	case s.AvgSentenceLength <= th.ShortSentence:
		score += 2
	case s.AvgSentenceLength <= th.LongSentence:
		score++
	}
	if s.SentenceCount >= th.MinSentences {
		score++
	}
	score -= float64(s.ContradictionHits)

	return models.DimensionScore{Score: max(0, score), Max: 3}
}

type keywordCoverage struct {
	found   []string
	missing []string
}

func (k keywordCoverage) ratio() float64 {
	total := len(k.found) + len(k.missing)
	if total == 0 {
		return 0
	}
	return float64(len(k.found)) / float64(total)
}

func coverKeywords(lower string, keywords []string) keywordCoverage {
	var k keywordCoverage
	for _, kw := range keywords {
		if strings.Contains(lower, rubric.Lower(kw)) {
			k.found = append(k.found, kw)
		} else {
			k.missing = append(k.missing, kw)
		}
	}
	return k
}

// reflectsPersona accepts a whole term or any single word of a term, so
// "Software Engineer" is reflected by "engineer".
func reflectsPersona(lower string, terms []string) bool {
	for _, term := range terms {
		t := strings.TrimSpace(rubric.Lower(term))
		if t == "" {
			continue
		}
		if strings.Contains(lower, t) {
			return true
		}
		for _, word := range strings.Fields(t) {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
