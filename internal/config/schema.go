package config

// Config is the top-level rubric file.
type Config struct {
	Rubric RubricConfig `yaml:"rubric" json:"rubric"`
}

// RubricConfig holds every vocabulary, pattern and threshold the engine uses.
// Nothing in the analyzer or aggregator hard-codes a keyword.
type RubricConfig struct {
	Markers          map[string][]string      `yaml:"markers" json:"markers"`
	InteractionCues  []string                 `yaml:"interaction_cues" json:"interaction_cues"`
	Safety           []SafetyCategory         `yaml:"safety" json:"safety"`
	Contradictions   []PatternConfig          `yaml:"contradictions" json:"contradictions"`
	Injections       []PatternConfig          `yaml:"injection_patterns" json:"injection_patterns"`
	UnsafeElements   []string                 `yaml:"unsafe_elements" json:"unsafe_elements"`
	Relevance        RelevanceConfig          `yaml:"relevance" json:"relevance"`
	Variants         map[string]VariantConfig `yaml:"variants" json:"variants"`
	StructureWeights StructureWeights         `yaml:"structure_weights" json:"structure_weights"`
	Thresholds       Thresholds               `yaml:"thresholds" json:"thresholds"`
}

// SafetyCategory is one labelled group of safety cues. Order is preserved in
// the reported markers.
type SafetyCategory struct {
	Label string   `yaml:"label" json:"label"`
	Cues  []string `yaml:"cues" json:"cues"`
}

// PatternConfig is a named regular expression matched against lowercased text.
type PatternConfig struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

type RelevanceConfig struct {
	IgnoreStopWords bool     `yaml:"ignore_stop_words" json:"ignore_stop_words"`
	StopWords       []string `yaml:"stop_words" json:"stop_words"`
}

// VariantConfig binds a variant kind to the gate rule that must hold for it.
type VariantConfig struct {
	Gate string `yaml:"gate" json:"gate"`
}

type StructureWeights struct {
	Role         float64 `yaml:"role" json:"role"`
	Instructions float64 `yaml:"instructions" json:"instructions"`
	Context      float64 `yaml:"context" json:"context"`
	Formatting   float64 `yaml:"formatting" json:"formatting"`
	LongText     float64 `yaml:"long_text" json:"long_text"`
	WordCount    float64 `yaml:"word_count" json:"word_count"`
}

type Thresholds struct {
	MinAnalyzableLength int            `yaml:"min_analyzable_length" json:"min_analyzable_length"`
	MinLength           int            `yaml:"min_length" json:"min_length"`
	MaxLength           int            `yaml:"max_length" json:"max_length"`
	LongTextChars       int            `yaml:"long_text_chars" json:"long_text_chars"`
	LongTextWords       int            `yaml:"long_text_words" json:"long_text_words"`
	StrongRelevance     float64        `yaml:"strong_relevance" json:"strong_relevance"`
	WeakRelevance       float64        `yaml:"weak_relevance" json:"weak_relevance"`
	KeywordCoverage     float64        `yaml:"keyword_coverage" json:"keyword_coverage"`
	ShortSentence       float64        `yaml:"short_sentence" json:"short_sentence"`
	LongSentence        float64        `yaml:"long_sentence" json:"long_sentence"`
	MinSentences        int            `yaml:"min_sentences" json:"min_sentences"`
	HighInteractionCues int            `yaml:"high_interaction_cues" json:"high_interaction_cues"`
	PassingTier         string         `yaml:"passing_tier" json:"passing_tier"`
	Tiers               TierThresholds `yaml:"tiers" json:"tiers"`
}

type TierThresholds struct {
	Excellent float64 `yaml:"excellent" json:"excellent"`
	Good      float64 `yaml:"good" json:"good"`
	Fair      float64 `yaml:"fair" json:"fair"`
}
