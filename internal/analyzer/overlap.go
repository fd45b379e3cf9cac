package analyzer

import (
	"strings"
	"unicode"

	"github.com/lukitun/Jahbreak/internal/rubric"
)

// RelevanceOverlap is the fraction of distinct query words that also occur in
// the text. An empty query yields 0.
func (a *Analyzer) RelevanceOverlap(query string, text string) float64 {
	queryTokens := extractUniqueTokens(a.tokenize(query))
	if len(queryTokens) == 0 {
		return 0
	}

	textTokens := extractUniqueTokens(a.tokenize(text))

	count := 0
	for token := range queryTokens {
		if _, exists := textTokens[token]; exists {
			count++
		}
	}

	return float64(count) / float64(len(queryTokens))
}

func (a *Analyzer) tokenize(s string) []string {
	s = removePunctuation(rubric.Lower(s))

	tokens := []string{}
	for word := range strings.FieldsSeq(s) {
		if a.rubric.IgnoreStopWords {
			if _, stop := a.rubric.StopWords[word]; stop {
				continue
			}
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func extractUniqueTokens(tokens []string) map[string]bool {
	unique := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		unique[t] = true
	}
	return unique
}

func removePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}
