package analyzer

import (
	"strings"
)

func CountWords(text string) int {
	return len(strings.Fields(text))
}

func isSentenceTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// CountSentences counts the non-blank segments between sentence terminals.
// Text without any terminal punctuation is one sentence when non-blank.
func CountSentences(text string) int {
	count := 0
	for _, segment := range strings.FieldsFunc(text, isSentenceTerminal) {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}
