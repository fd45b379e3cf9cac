package gate

import (
	"fmt"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/rubric"
	"github.com/rs/zerolog"
)

var builtin = map[string]Rule{
	RuleNone:          NoneRule{},
	RuleInteraction:   InteractionRule{},
	RuleSafetyFraming: SafetyFramingRule{},
	RuleRoleAndInstr:  RoleAndInstructionsRule{},
}

// Registry maps each known variant kind to its gate rule.
type Registry struct {
	rules map[models.VariantKind]Rule
}

// BuildFromConfig resolves the rule names configured per variant. Every known
// variant kind must end up with a rule.
func BuildFromConfig(r *rubric.Rubric, logger *zerolog.Logger) (*Registry, error) {
	if r == nil {
		return nil, fmt.Errorf("rubric is nil")
	}

	reg := &Registry{rules: make(map[models.VariantKind]Rule, len(r.Gates))}

	for kind, name := range r.Gates {
		rule, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("variant %s: unknown gate rule %q", kind, name)
		}
		reg.rules[kind] = rule

		logger.Debug().
			Str("variant", string(kind)).
			Str("gate", name).
			Msg("gate rule registered")
	}

	for _, kind := range models.KnownVariantKinds() {
		if _, ok := reg.rules[kind]; !ok {
			return nil, fmt.Errorf("variant %s has no gate rule", kind)
		}
	}

	return reg, nil
}

func (r *Registry) Rule(kind models.VariantKind) (Rule, bool) {
	rule, ok := r.rules[kind]
	return rule, ok
}
