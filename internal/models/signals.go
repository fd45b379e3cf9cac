package models

type InteractionLevel string

const (
	InteractionNone   InteractionLevel = "none"
	InteractionLow    InteractionLevel = "low"
	InteractionMedium InteractionLevel = "medium"
	InteractionHigh   InteractionLevel = "high"
)

type SafetyMarker string

const (
	SafetyEthicalGuidelines   SafetyMarker = "ethical-guidelines"
	SafetyWarnings            SafetyMarker = "safety-warnings"
	SafetyLimitationAwareness SafetyMarker = "limitation-awareness"
)

// KnownSafetyMarkers lists the built-in marker labels in report order.
func KnownSafetyMarkers() []SafetyMarker {
	return []SafetyMarker{SafetyEthicalGuidelines, SafetyWarnings, SafetyLimitationAwareness}
}

// Signals is what the analyzer extracts from one text sample.
type Signals struct {
	HasRole         bool `json:"has_role"`
	HasInstructions bool `json:"has_instructions"`
	HasContext      bool `json:"has_context"`
	HasFormatting   bool `json:"has_formatting"`
	HasExamples     bool `json:"has_examples"`

	InteractionLevel InteractionLevel `json:"interaction_level"`
	SafetyMarkers    []SafetyMarker   `json:"safety_markers"`

	CharLength        int     `json:"char_length"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`

	// BelowFloor marks text too short to analyze; scoring treats it as an
	// automatic low score.
	BelowFloor bool `json:"below_floor"`

	RelevanceOverlapRatio float64  `json:"relevance_overlap_ratio"`
	ContradictionHits     int      `json:"contradiction_hits"`
	Contradictions        []string `json:"contradictions,omitempty"`
	InjectionHits         []string `json:"injection_hits,omitempty"`
	UnsafeElements        []string `json:"unsafe_elements,omitempty"`
}

func (s Signals) HasSafetyMarker(m SafetyMarker) bool {
	for _, got := range s.SafetyMarkers {
		if got == m {
			return true
		}
	}
	return false
}
