package gate

import (
	"strings"

	"github.com/lukitun/Jahbreak/internal/models"
)

// NoneRule is the gate of the direct variant: nothing beyond the shared checks.
type NoneRule struct{}

func (NoneRule) Name() string  { return RuleNone }
func (NoneRule) Applies() bool { return false }

func (NoneRule) Check(models.Signals) (bool, models.Issue) {
	return true, models.Issue{}
}

// InteractionRule requires an interactive prompt to invite questions.
type InteractionRule struct{}

func (InteractionRule) Name() string  { return RuleInteraction }
func (InteractionRule) Applies() bool { return true }

func (InteractionRule) Check(signals models.Signals) (bool, models.Issue) {
	switch signals.InteractionLevel {
	case models.InteractionMedium, models.InteractionHigh:
		return true, models.Issue{}
	}
	return false, models.NewIssue(models.IssueLowInteraction,
		"does not encourage interaction (interaction level %s)", signals.InteractionLevel)
}

// SafetyFramingRule requires an unsafe-classified prompt to carry at least one
// safety marker.
type SafetyFramingRule struct{}

func (SafetyFramingRule) Name() string  { return RuleSafetyFraming }
func (SafetyFramingRule) Applies() bool { return true }

func (SafetyFramingRule) Check(signals models.Signals) (bool, models.Issue) {
	if len(signals.SafetyMarkers) > 0 {
		return true, models.Issue{}
	}
	return false, models.NewIssue(models.IssueMissingSafetyFraming,
		"missing safety framing: no ethical, warning or limitation language found")
}

// RoleAndInstructionsRule is a stricter direct gate: the prompt must both set a
// role and give instructions.
type RoleAndInstructionsRule struct{}

func (RoleAndInstructionsRule) Name() string  { return RuleRoleAndInstr }
func (RoleAndInstructionsRule) Applies() bool { return true }

func (RoleAndInstructionsRule) Check(signals models.Signals) (bool, models.Issue) {
	var missing []string
	if !signals.HasRole {
		missing = append(missing, "role")
	}
	if !signals.HasInstructions {
		missing = append(missing, "instructions")
	}
	if len(missing) == 0 {
		return true, models.Issue{}
	}
	return false, models.NewIssue(models.IssueMissingRoleOrInstructions,
		"direct prompt is missing %s", strings.Join(missing, " and "))
}
