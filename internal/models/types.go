package models

import (
	"time"
)

type EventType string

const (
	EventTypePromptGenerated EventType = "prompt_generated"
	EventTypePromptPair      EventType = "prompt_pair"
)

type Generator struct {
	Name    string `json:"name"`
	Mode    string `json:"mode,omitempty"`
	Version string `json:"version,omitempty"`
}

// Sample is one generated prompt as reported by the caller. A missing query or
// variant is not a request error: the engine scores it and reports the issue.
type Sample struct {
	Query                string   `json:"user_query"`
	Text                 string   `json:"text"`
	Variant              string   `json:"variant"`
	ExpectedKeywords     []string `json:"expected_keywords,omitempty" validate:"dive,required"`
	ExpectedPersonaTerms []string `json:"expected_persona_terms,omitempty" validate:"dive,required"`
}

// Input message

type EvaluationRequest struct {
	EventID        string    `json:"event_id"`
	EventType      EventType `json:"event_type"`
	Generator      Generator `json:"generator"`
	Sample         Sample    `json:"sample" validate:"required"`
	ExpectedPassed *bool     `json:"expected_passed,omitempty"`
}

type CompareRequest struct {
	EventID        string    `json:"event_id"`
	Generator      Generator `json:"generator"`
	First          Sample    `json:"first" validate:"required"`
	Second         Sample    `json:"second" validate:"required"`
	ExpectDistinct bool      `json:"expect_distinct"`
}

// Normalized internal object
type EvaluationInput struct {
	RequestID            string      `json:"request_id" jsonschema:"unique event identifier"`
	Query                string      `json:"user_query" jsonschema:"natural-language request that produced the text"`
	Text                 string      `json:"text" jsonschema:"generated prompt under evaluation"`
	Variant              VariantKind `json:"variant" jsonschema:"variant kind: direct, interactive or unsafe"`
	ExpectedKeywords     []string    `json:"expected_keywords,omitempty" jsonschema:"keywords the text should contain"`
	ExpectedPersonaTerms []string    `json:"expected_persona_terms,omitempty" jsonschema:"requested persona or role label"`
	CreatedAt            time.Time   `json:"created_at" jsonschema:"time when the input was created"`
}

// Score of one dimension on its own [0, Max] sub-scale.
type DimensionScore struct {
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Final output of one evaluation
type EvaluationResult struct {
	ID              string                    `json:"id"`
	Variant         VariantKind               `json:"variant"`
	DimensionScores map[string]DimensionScore `json:"dimension_scores"`
	AggregateScore  float64                   `json:"aggregate_score"`
	QualityTier     QualityTier               `json:"quality_tier"`
	Issues          []Issue                   `json:"issues"`
	Warnings        []string                  `json:"warnings,omitempty"`
	Passed          bool                      `json:"passed"`
	Signals         Signals                   `json:"signals"`
	Text            string                    `json:"-"`
}

// Comparison of two results generated from the same query.
type Comparison struct {
	Identical   bool `json:"identical"`
	LengthDelta int  `json:"length_delta"`
}

// PairResult is the outcome of evaluating two variants of one query.
type PairResult struct {
	ID                string           `json:"id"`
	First             EvaluationResult `json:"first"`
	Second            EvaluationResult `json:"second"`
	Comparison        Comparison       `json:"comparison"`
	VariantsIdentical bool             `json:"variants_identical"`
	Issues            []Issue          `json:"issues"`
	Passed            bool             `json:"passed"`
}
