package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/lukitun/Jahbreak/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed rubric.yaml
var defaultRubric []byte

// Marker categories every rubric must define.
const (
	MarkerRole         = "role"
	MarkerInstructions = "instructions"
	MarkerContext      = "context"
	MarkerFormatting   = "formatting"
	MarkerExamples     = "examples"
)

var requiredMarkers = []string{MarkerRole, MarkerInstructions, MarkerContext, MarkerFormatting, MarkerExamples}

var validTiers = map[string]bool{"poor": true, "fair": true, "good": true, "excellent": true}

// LoadRubricConfig reads the rubric named by RUBRIC_CONFIG_PATH, falling back
// to the embedded default.
func LoadRubricConfig() (*Config, error) {
	path := os.Getenv("RUBRIC_CONFIG_PATH")
	if path == "" {
		return ParseRubricConfig(defaultRubric)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseRubricConfig(data)
}

// DefaultRubricConfig returns the embedded rubric.
func DefaultRubricConfig() *Config {
	cfg, err := ParseRubricConfig(defaultRubric)
	if err != nil {
		panic(fmt.Sprintf("embedded rubric is invalid: %v", err))
	}
	return cfg
}

// ParseRubricConfig decodes a rubric document. Keys absent from the document
// keep their built-in defaults; keys present, including explicit zeros, win.
func ParseRubricConfig(data []byte) (*Config, error) {
	cfg := Config{Rubric: RubricConfig{
		Thresholds:       defaultThresholds(),
		StructureWeights: defaultStructureWeights(),
	}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Rubric.Variants == nil {
		cfg.Rubric.Variants = map[string]VariantConfig{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultThresholds() Thresholds {
	return Thresholds{
		MinAnalyzableLength: 50,
		MinLength:           100,
		MaxLength:           2000,
		LongTextChars:       200,
		LongTextWords:       50,
		StrongRelevance:     0.5,
		WeakRelevance:       0.3,
		KeywordCoverage:     0.5,
		ShortSentence:       15,
		LongSentence:        30,
		MinSentences:        3,
		HighInteractionCues: 2,
		PassingTier:         "good",
		Tiers:               TierThresholds{Excellent: 7.0 / 9.0, Good: 5.0 / 9.0, Fair: 3.0 / 9.0},
	}
}

func defaultStructureWeights() StructureWeights {
	return StructureWeights{
		Role:         2,
		Instructions: 2,
		Context:      1,
		Formatting:   1,
		LongText:     1,
		WordCount:    1,
	}
}

func (c *Config) Validate() error {
	var errs []error
	r := c.Rubric

	for _, name := range requiredMarkers {
		if len(r.Markers[name]) == 0 {
			errs = append(errs, fmt.Errorf("marker category %q has no cues", name))
		}
	}
	if len(r.InteractionCues) == 0 {
		errs = append(errs, errors.New("no interaction cues configured"))
	}

	seen := make(map[string]bool)
	for i, cat := range r.Safety {
		if cat.Label == "" {
			errs = append(errs, fmt.Errorf("safety category at index %d: missing label", i))
			continue
		}
		if seen[cat.Label] {
			errs = append(errs, fmt.Errorf("duplicate safety label: %s", cat.Label))
		}
		seen[cat.Label] = true
		if len(cat.Cues) == 0 {
			errs = append(errs, fmt.Errorf("safety category %s has no cues", cat.Label))
		}
	}

	errs = append(errs, validatePatterns("contradiction", r.Contradictions)...)
	errs = append(errs, validatePatterns("injection", r.Injections)...)

	for _, kind := range models.KnownVariantKinds() {
		v, ok := r.Variants[string(kind)]
		if !ok || strings.TrimSpace(v.Gate) == "" {
			errs = append(errs, fmt.Errorf("variant %s has no gate rule", kind))
		}
	}

	t := r.Thresholds
	if t.MinLength > t.MaxLength {
		errs = append(errs, fmt.Errorf("min_length %d exceeds max_length %d", t.MinLength, t.MaxLength))
	}
	if t.WeakRelevance > t.StrongRelevance {
		errs = append(errs, errors.New("weak_relevance exceeds strong_relevance"))
	}
	if t.ShortSentence > t.LongSentence {
		errs = append(errs, errors.New("short_sentence exceeds long_sentence"))
	}
	if !(t.Tiers.Fair <= t.Tiers.Good && t.Tiers.Good <= t.Tiers.Excellent && t.Tiers.Excellent <= 1) {
		errs = append(errs, errors.New("tier thresholds must satisfy fair <= good <= excellent <= 1"))
	}
	for _, ratio := range []float64{t.StrongRelevance, t.WeakRelevance, t.KeywordCoverage} {
		if ratio < 0 || ratio > 1 {
			errs = append(errs, fmt.Errorf("invalid ratio threshold: %v", ratio))
		}
	}
	if !validTiers[t.PassingTier] {
		errs = append(errs, fmt.Errorf("invalid passing_tier: %s", t.PassingTier))
	}

	return errors.Join(errs...)
}

func validatePatterns(kind string, patterns []PatternConfig) []error {
	var errs []error
	for i, p := range patterns {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s pattern at index %d: missing name", kind, i))
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s pattern %q: %w", kind, p.Name, err))
		}
	}
	return errs
}
