package analyzer

import (
	"unicode/utf8"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
)

// Analyzer extracts structural and lexical signals from a generated prompt.
// It holds only the read-only rubric and is safe for concurrent use.
type Analyzer struct {
	rubric *rubric.Rubric
}

func NewAnalyzer(r *rubric.Rubric) *Analyzer {
	if r == nil {
		r = rubric.Default()
	}
	return &Analyzer{rubric: r}
}

// Analyze never fails: any string, including an empty one, yields signals.
func (a *Analyzer) Analyze(in models.EvaluationInput) models.Signals {
	signals := models.Signals{
		InteractionLevel: models.InteractionNone,
		SafetyMarkers:    []models.SafetyMarker{},
		CharLength:       utf8.RuneCountInString(in.Text),
	}

	lower := rubric.Lower(in.Text)

	signals.RelevanceOverlapRatio = a.RelevanceOverlap(in.Query, in.Text)
	signals.Contradictions = matchPatterns(lower, a.rubric.Contradictions)
	signals.ContradictionHits = len(signals.Contradictions)
	signals.InjectionHits = matchPatterns(lower, a.rubric.Injections)
	signals.UnsafeElements = matchCues(lower, a.rubric.UnsafeElements)

	if signals.CharLength < a.rubric.Thresholds.MinAnalyzableLength {
		signals.BelowFloor = true
		return signals
	}

	a.detectMarkers(lower, in.Variant, &signals)

	signals.WordCount = CountWords(in.Text)
	signals.SentenceCount = CountSentences(in.Text)
	signals.AvgSentenceLength = float64(signals.WordCount) / float64(max(1, signals.SentenceCount))

	return signals
}
