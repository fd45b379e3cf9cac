package aggregator

import (
	"unicode/utf8"

	"github.com/lukitun/Jahbreak/internal/models"
)

// Compare reports whether two results were produced from the same raw text,
// and how far apart their lengths are in characters.
func Compare(a, b models.EvaluationResult) models.Comparison {
	delta := utf8.RuneCountInString(a.Text) - utf8.RuneCountInString(b.Text)
	if delta < 0 {
		delta = -delta
	}
	return models.Comparison{
		Identical:   a.Text == b.Text,
		LengthDelta: delta,
	}
}
