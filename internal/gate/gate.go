package gate

import (
	"github.com/lukitun/Jahbreak/internal/models"
)

// Rule is the variant-specific check a sample must pass on top of the
// shared dimensions. Applies reports whether the rule contributes a scored
// dimension at all.
type Rule interface {
	Name() string
	Applies() bool
	Check(signals models.Signals) (bool, models.Issue)
}

const (
	RuleNone          = "none"
	RuleInteraction   = "interaction"
	RuleSafetyFraming = "safety_framing"
	RuleRoleAndInstr  = "role_and_instructions"
)

// DefaultRule is the built-in gate of a variant kind. Unknown kinds get the
// direct gate.
func DefaultRule(kind models.VariantKind) Rule {
	switch kind {
	case models.VariantInteractive:
		return InteractionRule{}
	case models.VariantUnsafe:
		return SafetyFramingRule{}
	default:
		return NoneRule{}
	}
}
