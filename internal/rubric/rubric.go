// Package rubric compiles the rubric configuration into the read-only tables
// shared by the analyzer, the gate rules and the aggregator. A Rubric is never
// modified after Compile returns, so one value may serve any number of
// concurrent evaluations.
package rubric

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/lukitun/Jahbreak/internal/config"
	"github.com/lukitun/Jahbreak/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

type SafetyCategory struct {
	Label models.SafetyMarker
	Cues  []string
}

type Rubric struct {
	Role         []string
	Instructions []string
	Context      []string
	Formatting   []string
	Examples     []string

	InteractionCues []string
	Safety          []SafetyCategory
	Contradictions  []Pattern
	Injections      []Pattern
	UnsafeElements  []string

	IgnoreStopWords bool
	StopWords       map[string]struct{}

	// Gates maps each known variant kind to a gate rule name.
	Gates map[models.VariantKind]string

	Weights    config.StructureWeights
	Thresholds config.Thresholds
}

// Compile lowercases every vocabulary entry and compiles every pattern.
func Compile(cfg *config.Config) (*Rubric, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rubric config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rubric config: %w", err)
	}

	rc := cfg.Rubric
	r := &Rubric{
		Role:            lowerAll(rc.Markers[config.MarkerRole]),
		Instructions:    lowerAll(rc.Markers[config.MarkerInstructions]),
		Context:         lowerAll(rc.Markers[config.MarkerContext]),
		Formatting:      lowerAll(rc.Markers[config.MarkerFormatting]),
		Examples:        lowerAll(rc.Markers[config.MarkerExamples]),
		InteractionCues: lowerAll(rc.InteractionCues),
		UnsafeElements:  lowerAll(rc.UnsafeElements),
		IgnoreStopWords: rc.Relevance.IgnoreStopWords,
		StopWords:       make(map[string]struct{}, len(rc.Relevance.StopWords)),
		Gates:           make(map[models.VariantKind]string, len(rc.Variants)),
		Weights:         rc.StructureWeights,
		Thresholds:      rc.Thresholds,
	}

	for _, cat := range rc.Safety {
		r.Safety = append(r.Safety, SafetyCategory{
			Label: models.SafetyMarker(cat.Label),
			Cues:  lowerAll(cat.Cues),
		})
	}

	var err error
	if r.Contradictions, err = compilePatterns(rc.Contradictions); err != nil {
		return nil, err
	}
	if r.Injections, err = compilePatterns(rc.Injections); err != nil {
		return nil, err
	}

	for _, w := range lowerAll(rc.Relevance.StopWords) {
		r.StopWords[w] = struct{}{}
	}

	for name, v := range rc.Variants {
		kind, err := models.ParseVariantKind(name)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", name, err)
		}
		r.Gates[kind] = strings.TrimSpace(v.Gate)
	}

	return r, nil
}

var defaultRubric = sync.OnceValue(func() *Rubric {
	r, err := Compile(config.DefaultRubricConfig())
	if err != nil {
		panic(fmt.Sprintf("compile embedded rubric: %v", err))
	}
	return r
})

// Default returns the rubric compiled from the embedded configuration.
func Default() *Rubric {
	return defaultRubric()
}

// Lower is the case folding used for every comparison in the engine.
// A Caser keeps state, so each call builds its own.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ContainsAny reports whether any cue is a substring of text. text must
// already be lowercased.
func ContainsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if cue != "" && strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, Lower(s))
		}
	}
	return out
}

func compilePatterns(in []config.PatternConfig) ([]Pattern, error) {
	out := make([]Pattern, 0, len(in))
	for _, p := range in {
		expr, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p.Name, err)
		}
		out = append(out, Pattern{Name: p.Name, Expr: expr})
	}
	return out, nil
}
