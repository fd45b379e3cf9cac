package models

import "fmt"

type QualityTier string

const (
	TierPoor      QualityTier = "poor"
	TierFair      QualityTier = "fair"
	TierGood      QualityTier = "good"
	TierExcellent QualityTier = "excellent"
)

// IssueKind names one detected defect. Issues are part of the verdict, never
// returned as errors.
type IssueKind string

const (
	IssueInputTooShort             IssueKind = "InputTooShort"
	IssueInputTooLong              IssueKind = "InputTooLong"
	IssueQueryIrrelevant           IssueKind = "QueryIrrelevant"
	IssueMissingKeywords           IssueKind = "MissingKeywords"
	IssuePersonaNotReflected       IssueKind = "PersonaNotReflected"
	IssueLowInteraction            IssueKind = "LowInteraction"
	IssueMissingSafetyFraming      IssueKind = "MissingSafetyFraming"
	IssueMissingRoleOrInstructions IssueKind = "MissingRoleOrInstructions"
	IssueLowQuality                IssueKind = "LowQuality"
	IssueInternalContradiction     IssueKind = "InternalContradiction"
	IssueInjectionPattern          IssueKind = "InjectionPattern"
	IssueUnexpectedVariantKind     IssueKind = "UnexpectedVariantKind"
	IssueVariantsIdentical         IssueKind = "VariantsIdentical"
)

type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func NewIssue(kind IssueKind, format string, args ...any) Issue {
	return Issue{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

func (r EvaluationResult) HasIssue(kind IssueKind) bool {
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}
